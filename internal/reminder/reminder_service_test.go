package reminder_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/assignment"
	"github.com/tonyorjime-cloud/WorNest/internal/leave"
	"github.com/tonyorjime-cloud/WorNest/internal/reminder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAssignmentRepository struct {
	findOpenByCompanyFn func(ctx context.Context, companyID string) ([]assignment.Assignment, error)
}

func (f *fakeAssignmentRepository) WithTx(tx *sql.Tx) assignment.Repository { return f }
func (f *fakeAssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	return nil
}
func (f *fakeAssignmentRepository) FindAllByCompany(ctx context.Context, companyID string) ([]assignment.Assignment, error) {
	return nil, nil
}
func (f *fakeAssignmentRepository) FindOpenByCompany(ctx context.Context, companyID string) ([]assignment.Assignment, error) {
	return f.findOpenByCompanyFn(ctx, companyID)
}
func (f *fakeAssignmentRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*assignment.Assignment, error) {
	return nil, nil
}
func (f *fakeAssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) error {
	return nil
}
func (f *fakeAssignmentRepository) CountOpenByStaff(ctx context.Context, companyID string) (map[string]int, error) {
	return nil, nil
}
func (f *fakeAssignmentRepository) StaffBelongsToCompany(ctx context.Context, companyID, staffID string) (bool, error) {
	return true, nil
}

type fakeLeaveRepository struct {
	findApprovedCoveringFn func(ctx context.Context, companyID string, date time.Time) ([]leave.Leave, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository             { return f }
func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error { return nil }
func (f *fakeLeaveRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leave.Leave, error) {
	return nil, nil
}
func (f *fakeLeaveRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leave.Leave, error) {
	return nil, nil
}
func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error { return nil }
func (f *fakeLeaveRepository) StaffBelongsToCompany(ctx context.Context, companyID, staffID string) (bool, error) {
	return true, nil
}
func (f *fakeLeaveRepository) HasOverlappingApproved(ctx context.Context, companyID, staffID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	return false, nil
}
func (f *fakeLeaveRepository) FindApprovedOverlapping(ctx context.Context, companyID string, startDate, endDate time.Time) ([]leave.Leave, error) {
	return nil, nil
}
func (f *fakeLeaveRepository) FindApprovedCovering(ctx context.Context, companyID string, date time.Time) ([]leave.Leave, error) {
	return f.findApprovedCoveringFn(ctx, companyID, date)
}

type fakeDispatchRepository struct {
	findBySentOnFn func(ctx context.Context, companyID string, sentOn time.Time) ([]reminder.Dispatch, error)
}

func (f *fakeDispatchRepository) WithTx(tx *sql.Tx) reminder.DispatchRepository { return f }
func (f *fakeDispatchRepository) Record(ctx context.Context, d *reminder.Dispatch) (bool, error) {
	return true, nil
}
func (f *fakeDispatchRepository) FindBySentOn(ctx context.Context, companyID string, sentOn time.Time) ([]reminder.Dispatch, error) {
	return f.findBySentOnFn(ctx, companyID, sentOn)
}
func (f *fakeDispatchRepository) CompanyIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func companyAssignment(companyID, staffID uuid.UUID, title string, due time.Time) assignment.Assignment {
	return assignment.Assignment{
		ID:        uuid.New(),
		CompanyID: companyID,
		StaffID:   staffID,
		Title:     title,
		DueDate:   due,
		Status:    assignment.StatusOpen,
	}
}

func companyApprovedLeave(companyID, staffID uuid.UUID, start, end time.Time) leave.Leave {
	return leave.Leave{
		ID:        uuid.New(),
		CompanyID: companyID,
		StaffID:   staffID,
		StartDate: start,
		EndDate:   end,
		Status:    leave.StatusApproved,
	}
}

func TestReminderService_Evaluate(t *testing.T) {
	companyID := uuid.New()
	onLeaveStaff := uuid.New()
	workingStaff := uuid.New()
	evalDate := day(2025, time.March, 10)

	assignments := []assignment.Assignment{
		companyAssignment(companyID, workingStaff, "quarterly report", day(2025, time.March, 8)),
		companyAssignment(companyID, onLeaveStaff, "payroll run", day(2025, time.March, 10)),
	}
	leaves := []leave.Leave{
		companyApprovedLeave(companyID, onLeaveStaff, day(2025, time.March, 9), day(2025, time.March, 12)),
	}

	assignmentRepo := &fakeAssignmentRepository{
		findOpenByCompanyFn: func(ctx context.Context, cid string) ([]assignment.Assignment, error) {
			assert.Equal(t, companyID.String(), cid)
			return assignments, nil
		},
	}
	leaveRepo := &fakeLeaveRepository{
		findApprovedCoveringFn: func(ctx context.Context, cid string, date time.Time) ([]leave.Leave, error) {
			return leaves, nil
		},
	}
	svc := reminder.NewService(assignmentRepo, leaveRepo, &fakeDispatchRepository{})

	t.Run("suppressed excluded by default", func(t *testing.T) {
		resp, err := svc.Evaluate(context.Background(), companyID.String(), evalDate, reminder.DefaultLeadWindowDays, false)
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, workingStaff.String(), resp[0].StaffID)
		assert.Equal(t, reminder.CategoryOverdue, resp[0].Category)
		assert.Equal(t, 2, resp[0].DaysOverdue)
	})

	t.Run("suppressed included and flagged when requested", func(t *testing.T) {
		resp, err := svc.Evaluate(context.Background(), companyID.String(), evalDate, reminder.DefaultLeadWindowDays, true)
		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.False(t, resp[0].Suppressed)
		assert.True(t, resp[1].Suppressed)
		assert.Equal(t, onLeaveStaff.String(), resp[1].StaffID)
		assert.Equal(t, reminder.CategoryDueToday, resp[1].Category)
	})
}

func TestReminderService_StaffAlerts(t *testing.T) {
	companyID := uuid.New()
	staffID := uuid.New()
	otherStaff := uuid.New()
	evalDate := day(2025, time.March, 10)

	assignments := []assignment.Assignment{
		companyAssignment(companyID, staffID, "audit prep", day(2025, time.March, 7)),
		companyAssignment(companyID, staffID, "budget draft", day(2025, time.March, 12)),
		companyAssignment(companyID, otherStaff, "vendor review", day(2025, time.March, 10)),
	}

	assignmentRepo := &fakeAssignmentRepository{
		findOpenByCompanyFn: func(ctx context.Context, cid string) ([]assignment.Assignment, error) {
			return assignments, nil
		},
	}
	leaveRepo := &fakeLeaveRepository{
		findApprovedCoveringFn: func(ctx context.Context, cid string, date time.Time) ([]leave.Leave, error) {
			return nil, nil
		},
	}
	svc := reminder.NewService(assignmentRepo, leaveRepo, &fakeDispatchRepository{})

	t.Run("success severity follows category", func(t *testing.T) {
		alerts, err := svc.StaffAlerts(context.Background(), companyID.String(), staffID.String(), evalDate, reminder.DefaultLeadWindowDays)
		assert.NoError(t, err)
		assert.Len(t, alerts, 2)
		assert.Equal(t, reminder.SeverityHigh, alerts[0].Severity)
		assert.Contains(t, alerts[0].Message, "overdue by 3 day(s)")
		assert.Equal(t, reminder.SeverityMedium, alerts[1].Severity)
		assert.Contains(t, alerts[1].Message, "due in 2 day(s)")
	})

	t.Run("suppressed alerts are withheld", func(t *testing.T) {
		suppressedRepo := &fakeLeaveRepository{
			findApprovedCoveringFn: func(ctx context.Context, cid string, date time.Time) ([]leave.Leave, error) {
				return []leave.Leave{
					companyApprovedLeave(companyID, staffID, day(2025, time.March, 10), day(2025, time.March, 11)),
				}, nil
			},
		}
		quiet := reminder.NewService(assignmentRepo, suppressedRepo, &fakeDispatchRepository{})
		alerts, err := quiet.StaffAlerts(context.Background(), companyID.String(), staffID.String(), evalDate, reminder.DefaultLeadWindowDays)
		assert.NoError(t, err)
		assert.Empty(t, alerts)
	})

	t.Run("negative invalid staff id", func(t *testing.T) {
		_, err := svc.StaffAlerts(context.Background(), companyID.String(), "not-a-uuid", evalDate, reminder.DefaultLeadWindowDays)
		assert.Error(t, err)
	})
}

func TestReminderService_Dispatches(t *testing.T) {
	companyID := uuid.New()
	staffID := uuid.New()
	assignmentID := uuid.New()
	sentOn := day(2025, time.March, 10)

	dispatchRepo := &fakeDispatchRepository{
		findBySentOnFn: func(ctx context.Context, cid string, on time.Time) ([]reminder.Dispatch, error) {
			assert.Equal(t, companyID.String(), cid)
			assert.Equal(t, sentOn, on)
			return []reminder.Dispatch{{
				ID:           uuid.New(),
				CompanyID:    companyID,
				AssignmentID: assignmentID,
				StaffID:      staffID,
				Category:     reminder.CategoryOverdue,
				SentOn:       sentOn,
			}}, nil
		},
	}
	svc := reminder.NewService(&fakeAssignmentRepository{}, &fakeLeaveRepository{}, dispatchRepo)

	resp, err := svc.Dispatches(context.Background(), companyID.String(), sentOn.Add(9*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, assignmentID.String(), resp[0].AssignmentID)
	assert.Equal(t, reminder.CategoryOverdue, resp[0].Category)
	assert.Equal(t, "2025-03-10", resp[0].SentOn)
}
