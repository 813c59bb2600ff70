package reminder

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/assignment"
	"github.com/tonyorjime-cloud/WorNest/internal/leave"
	"github.com/tonyorjime-cloud/WorNest/internal/messaging/kafka"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type sweepDispatchRepo struct {
	mu       sync.Mutex
	recorded []Dispatch
	existing map[string]bool
	tenants  []string
}

func (f *sweepDispatchRepo) WithTx(tx *sql.Tx) DispatchRepository { return f }

func (f *sweepDispatchRepo) Record(ctx context.Context, d *Dispatch) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := d.AssignmentID.String() + "|" + d.Category + "|" + d.SentOn.Format("2006-01-02")
	if f.existing[key] {
		return false, nil
	}
	if f.existing == nil {
		f.existing = map[string]bool{}
	}
	f.existing[key] = true
	f.recorded = append(f.recorded, *d)
	return true, nil
}

func (f *sweepDispatchRepo) FindBySentOn(ctx context.Context, companyID string, sentOn time.Time) ([]Dispatch, error) {
	return f.recorded, nil
}

func (f *sweepDispatchRepo) CompanyIDs(ctx context.Context) ([]string, error) {
	return f.tenants, nil
}

type sweepAssignmentRepo struct {
	byCompany map[string][]assignment.Assignment
}

func (f *sweepAssignmentRepo) WithTx(tx *sql.Tx) assignment.Repository { return f }
func (f *sweepAssignmentRepo) Create(ctx context.Context, a *assignment.Assignment) error {
	return nil
}
func (f *sweepAssignmentRepo) FindAllByCompany(ctx context.Context, companyID string) ([]assignment.Assignment, error) {
	return nil, nil
}
func (f *sweepAssignmentRepo) FindOpenByCompany(ctx context.Context, companyID string) ([]assignment.Assignment, error) {
	return f.byCompany[companyID], nil
}
func (f *sweepAssignmentRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*assignment.Assignment, error) {
	return nil, nil
}
func (f *sweepAssignmentRepo) Update(ctx context.Context, a *assignment.Assignment) error {
	return nil
}
func (f *sweepAssignmentRepo) CountOpenByStaff(ctx context.Context, companyID string) (map[string]int, error) {
	return nil, nil
}
func (f *sweepAssignmentRepo) StaffBelongsToCompany(ctx context.Context, companyID, staffID string) (bool, error) {
	return true, nil
}

type sweepLeaveRepo struct {
	byCompany map[string][]leave.Leave
}

func (f *sweepLeaveRepo) WithTx(tx *sql.Tx) leave.Repository               { return f }
func (f *sweepLeaveRepo) Create(ctx context.Context, l *leave.Leave) error { return nil }
func (f *sweepLeaveRepo) FindAllByCompany(ctx context.Context, companyID string) ([]leave.Leave, error) {
	return nil, nil
}
func (f *sweepLeaveRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leave.Leave, error) {
	return nil, nil
}
func (f *sweepLeaveRepo) Update(ctx context.Context, l *leave.Leave) error { return nil }
func (f *sweepLeaveRepo) StaffBelongsToCompany(ctx context.Context, companyID, staffID string) (bool, error) {
	return true, nil
}
func (f *sweepLeaveRepo) HasOverlappingApproved(ctx context.Context, companyID, staffID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	return false, nil
}
func (f *sweepLeaveRepo) FindApprovedOverlapping(ctx context.Context, companyID string, startDate, endDate time.Time) ([]leave.Leave, error) {
	return nil, nil
}
func (f *sweepLeaveRepo) FindApprovedCovering(ctx context.Context, companyID string, date time.Time) ([]leave.Leave, error) {
	return f.byCompany[companyID], nil
}

type sweepOutbox struct {
	mu     sync.Mutex
	events []kafka.OutboxEvent
}

func (f *sweepOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *sweepOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *sweepOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *sweepOutbox) MarkSent(ctx context.Context, id string) error                { return nil }
func (f *sweepOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func TestSweeper_Sweep(t *testing.T) {
	companyID := uuid.New()
	workingStaff := uuid.New()
	onLeaveStaff := uuid.New()
	evalDate := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	newSweeper := func(dispatchRepo *sweepDispatchRepo, assignmentRepo *sweepAssignmentRepo, leaveRepo *sweepLeaveRepo, outbox *sweepOutbox) *Sweeper {
		s := NewSweeper(dispatchRepo, assignmentRepo, leaveRepo, outbox, time.Hour, DefaultLeadWindowDays)
		s.now = func() time.Time { return evalDate.Add(9 * time.Hour) }
		return s
	}

	t.Run("success queues one event per active reminder", func(t *testing.T) {
		overdue := assignment.Assignment{
			ID: uuid.New(), CompanyID: companyID, StaffID: workingStaff,
			Title: "close books", DueDate: evalDate.AddDate(0, 0, -1), Status: assignment.StatusOpen,
		}
		suppressedDue := assignment.Assignment{
			ID: uuid.New(), CompanyID: companyID, StaffID: onLeaveStaff,
			Title: "site visit", DueDate: evalDate, Status: assignment.StatusOpen,
		}

		dispatchRepo := &sweepDispatchRepo{tenants: []string{companyID.String()}}
		assignmentRepo := &sweepAssignmentRepo{byCompany: map[string][]assignment.Assignment{
			companyID.String(): {overdue, suppressedDue},
		}}
		leaveRepo := &sweepLeaveRepo{byCompany: map[string][]leave.Leave{
			companyID.String(): {{
				ID: uuid.New(), CompanyID: companyID, StaffID: onLeaveStaff,
				StartDate: evalDate.AddDate(0, 0, -2), EndDate: evalDate.AddDate(0, 0, 2),
				Status: leave.StatusApproved,
			}},
		}}
		outbox := &sweepOutbox{}

		stats := newSweeper(dispatchRepo, assignmentRepo, leaveRepo, outbox).Sweep(context.Background())

		assert.Equal(t, SweepStats{Checked: 2, Queued: 1, Skipped: 1}, stats)

		assert.Len(t, dispatchRepo.recorded, 1)
		assert.Equal(t, overdue.ID, dispatchRepo.recorded[0].AssignmentID)
		assert.Equal(t, CategoryOverdue, dispatchRepo.recorded[0].Category)

		assert.Len(t, outbox.events, 1)
		evt := outbox.events[0]
		assert.Equal(t, "reminder_due", evt.EventType)
		assert.Equal(t, overdue.ID.String(), evt.AggregateID)
		assert.Equal(t, kafka.OutboxStatusPending, evt.Status)
	})

	t.Run("rerun on the same day queues nothing new", func(t *testing.T) {
		task := assignment.Assignment{
			ID: uuid.New(), CompanyID: companyID, StaffID: workingStaff,
			Title: "handover notes", DueDate: evalDate, Status: assignment.StatusOpen,
		}

		dispatchRepo := &sweepDispatchRepo{tenants: []string{companyID.String()}}
		assignmentRepo := &sweepAssignmentRepo{byCompany: map[string][]assignment.Assignment{
			companyID.String(): {task},
		}}
		leaveRepo := &sweepLeaveRepo{byCompany: map[string][]leave.Leave{}}
		outbox := &sweepOutbox{}
		sweeper := newSweeper(dispatchRepo, assignmentRepo, leaveRepo, outbox)

		first := sweeper.Sweep(context.Background())
		second := sweeper.Sweep(context.Background())

		assert.Equal(t, SweepStats{Checked: 1, Queued: 1}, first)
		assert.Equal(t, SweepStats{Checked: 1}, second)
		assert.Len(t, dispatchRepo.recorded, 1)
		assert.Len(t, outbox.events, 1)
	})

	t.Run("tenants without open work are not visited", func(t *testing.T) {
		dispatchRepo := &sweepDispatchRepo{tenants: nil}
		outbox := &sweepOutbox{}
		stats := newSweeper(dispatchRepo, &sweepAssignmentRepo{}, &sweepLeaveRepo{}, outbox).Sweep(context.Background())

		assert.Equal(t, SweepStats{}, stats)
		assert.Empty(t, outbox.events)
	})
}
