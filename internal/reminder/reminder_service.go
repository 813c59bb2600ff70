package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/assignment"
	"github.com/tonyorjime-cloud/WorNest/internal/leave"
	reminderrors "github.com/tonyorjime-cloud/WorNest/internal/reminder/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

//go:generate mockgen -source=reminder_service.go -destination=mock/reminder_service_mock.go -package=mock
type Service interface {
	// Evaluate recomputes the reminder list for the given date.
	// Suppressed reminders are included only when includeSuppressed is
	// set; they are flagged, never rewritten into the assignment.
	Evaluate(ctx context.Context, companyID string, evalDate time.Time, leadWindowDays int, includeSuppressed bool) ([]ReminderResponse, error)
	StaffAlerts(ctx context.Context, companyID, staffID string, evalDate time.Time, leadWindowDays int) ([]AlertResponse, error)
	Dispatches(ctx context.Context, companyID string, sentOn time.Time) ([]DispatchResponse, error)
}

type service struct {
	assignmentRepo assignment.Repository
	leaveRepo      leave.Repository
	dispatchRepo   DispatchRepository
	logger         *zap.Logger
}

func NewService(
	assignmentRepo assignment.Repository,
	leaveRepo leave.Repository,
	dispatchRepo DispatchRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("reminder.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reminder.service")
	}
	return &service{
		assignmentRepo: assignmentRepo,
		leaveRepo:      leaveRepo,
		dispatchRepo:   dispatchRepo,
		logger:         l,
	}
}

func (s *service) Evaluate(ctx context.Context, companyID string, evalDate time.Time, leadWindowDays int, includeSuppressed bool) ([]ReminderResponse, error) {
	reminders, err := s.evaluate(ctx, companyID, evalDate, leadWindowDays)
	if err != nil {
		return nil, err
	}

	resp := make([]ReminderResponse, 0, len(reminders))
	suppressed := 0
	for _, r := range reminders {
		if r.Suppressed {
			suppressed++
			if !includeSuppressed {
				continue
			}
		}
		resp = append(resp, mapToReminderResponse(r))
	}

	s.logger.Debug("reminders evaluated",
		zap.String("company_id", companyID),
		zap.String("eval_date", evalDate.Format("2006-01-02")),
		zap.Int("total", len(reminders)),
		zap.Int("suppressed", suppressed),
	)
	return resp, nil
}

func (s *service) StaffAlerts(ctx context.Context, companyID, staffID string, evalDate time.Time, leadWindowDays int) ([]AlertResponse, error) {
	if _, err := uuid.Parse(staffID); err != nil {
		return nil, reminderrors.ErrInvalidStaffID
	}

	reminders, err := s.evaluate(ctx, companyID, evalDate, leadWindowDays)
	if err != nil {
		return nil, err
	}

	alerts := make([]AlertResponse, 0)
	for _, r := range reminders {
		if r.StaffID != staffID || r.Suppressed {
			continue
		}
		alerts = append(alerts, AlertResponse{
			AssignmentID: r.AssignmentID,
			Title:        r.Title,
			ProjectCode:  r.ProjectCode,
			Severity:     severityFor(r.Category),
			Message:      alertMessage(r, evalDate),
			DueDate:      r.DueDate.Format("2006-01-02"),
		})
	}
	return alerts, nil
}

// Dispatches lists the ledger for one day: what was already handed to
// the outbox, and therefore will not be queued again by the sweep.
func (s *service) Dispatches(ctx context.Context, companyID string, sentOn time.Time) ([]DispatchResponse, error) {
	dispatches, err := s.dispatchRepo.FindBySentOn(ctx, companyID, truncateToDay(sentOn))
	if err != nil {
		return nil, err
	}

	resp := make([]DispatchResponse, len(dispatches))
	for i, d := range dispatches {
		resp[i] = DispatchResponse{
			AssignmentID: d.AssignmentID.String(),
			StaffID:      d.StaffID.String(),
			Category:     d.Category,
			SentOn:       d.SentOn.Format("2006-01-02"),
		}
	}
	return resp, nil
}

func (s *service) evaluate(ctx context.Context, companyID string, evalDate time.Time, leadWindowDays int) ([]Reminder, error) {
	open, err := s.assignmentRepo.FindOpenByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	covering, err := s.leaveRepo.FindApprovedCovering(ctx, companyID, evalDate)
	if err != nil {
		return nil, err
	}
	return Evaluate(open, covering, evalDate, leadWindowDays), nil
}

func severityFor(category string) string {
	if category == CategoryOverdue {
		return SeverityHigh
	}
	return SeverityMedium
}

func alertMessage(r Reminder, evalDate time.Time) string {
	switch r.Category {
	case CategoryOverdue:
		return fmt.Sprintf("task %q is overdue by %d day(s)", r.Title, r.DaysOverdue)
	case CategoryDueToday:
		return fmt.Sprintf("task %q is due today", r.Title)
	default:
		days := int(r.DueDate.Sub(truncateToDay(evalDate)).Hours() / 24)
		return fmt.Sprintf("task %q is due in %d day(s)", r.Title, days)
	}
}

func mapToReminderResponse(r Reminder) ReminderResponse {
	return ReminderResponse{
		AssignmentID: r.AssignmentID,
		StaffID:      r.StaffID,
		Title:        r.Title,
		ProjectCode:  r.ProjectCode,
		Category:     r.Category,
		DueDate:      r.DueDate.Format("2006-01-02"),
		DaysOverdue:  r.DaysOverdue,
		Suppressed:   r.Suppressed,
	}
}
