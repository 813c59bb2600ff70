package reminder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/assignment"
	"github.com/tonyorjime-cloud/WorNest/internal/events"
	"github.com/tonyorjime-cloud/WorNest/internal/leave"
	"github.com/tonyorjime-cloud/WorNest/internal/messaging/kafka"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SweepStats struct {
	Checked int `json:"checked"`
	Queued  int `json:"queued"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Sweeper periodically re-evaluates reminders for every tenant and
// queues one outbox event per active reminder per day. The dispatch
// ledger, not the sweep schedule, is what makes reruns idempotent.
type Sweeper struct {
	dispatchRepo   DispatchRepository
	assignmentRepo assignment.Repository
	leaveRepo      leave.Repository
	outbox         kafka.OutboxRepository
	interval       time.Duration
	leadWindowDays int
	now            func() time.Time
	logger         *zap.Logger
}

func NewSweeper(
	dispatchRepo DispatchRepository,
	assignmentRepo assignment.Repository,
	leaveRepo leave.Repository,
	outboxRepo kafka.OutboxRepository,
	interval time.Duration,
	leadWindowDays int,
	logger ...*zap.Logger,
) *Sweeper {
	l := zap.L().Named("reminder.sweeper")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reminder.sweeper")
	}
	if interval <= 0 {
		interval = time.Hour
	}
	if leadWindowDays < 0 {
		leadWindowDays = DefaultLeadWindowDays
	}
	return &Sweeper{
		dispatchRepo:   dispatchRepo,
		assignmentRepo: assignmentRepo,
		leaveRepo:      leaveRepo,
		outbox:         outboxRepo,
		interval:       interval,
		leadWindowDays: leadWindowDays,
		now: func() time.Time {
			return time.Now().UTC()
		},
		logger: l,
	}
}

func (w *Sweeper) Run(ctx context.Context) {
	w.logger.Info("reminder sweeper started",
		zap.Duration("interval", w.interval),
		zap.Int("lead_window_days", w.leadWindowDays),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder sweeper stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

func (w *Sweeper) Sweep(ctx context.Context) SweepStats {
	var stats SweepStats

	companyIDs, err := w.dispatchRepo.CompanyIDs(ctx)
	if err != nil {
		w.logger.Error("sweep company listing failed", zap.Error(err))
		stats.Errors++
		return stats
	}

	evalDate := truncateToDay(w.now())
	for _, companyID := range companyIDs {
		w.sweepCompany(ctx, companyID, evalDate, &stats)
	}

	w.logger.Info("reminder sweep finished",
		zap.String("eval_date", evalDate.Format("2006-01-02")),
		zap.Int("companies", len(companyIDs)),
		zap.Int("checked", stats.Checked),
		zap.Int("queued", stats.Queued),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
	)
	return stats
}

func (w *Sweeper) sweepCompany(ctx context.Context, companyID string, evalDate time.Time, stats *SweepStats) {
	open, err := w.assignmentRepo.FindOpenByCompany(ctx, companyID)
	if err != nil {
		w.logger.Error("sweep assignment read failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		stats.Errors++
		return
	}
	covering, err := w.leaveRepo.FindApprovedCovering(ctx, companyID, evalDate)
	if err != nil {
		w.logger.Error("sweep leave read failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		stats.Errors++
		return
	}

	for _, r := range Evaluate(open, covering, evalDate, w.leadWindowDays) {
		stats.Checked++
		if r.Suppressed {
			stats.Skipped++
			continue
		}
		queued, err := w.dispatch(ctx, companyID, r, evalDate)
		if err != nil {
			w.logger.Error("sweep dispatch failed",
				zap.String("company_id", companyID),
				zap.String("assignment_id", r.AssignmentID),
				zap.Error(err),
			)
			stats.Errors++
			continue
		}
		if queued {
			stats.Queued++
		}
	}
}

func (w *Sweeper) dispatch(ctx context.Context, companyID string, r Reminder, evalDate time.Time) (bool, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return false, err
	}
	assignmentUUID, err := uuid.Parse(r.AssignmentID)
	if err != nil {
		return false, err
	}
	staffUUID, err := uuid.Parse(r.StaffID)
	if err != nil {
		return false, err
	}

	created, err := w.dispatchRepo.Record(ctx, &Dispatch{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		AssignmentID: assignmentUUID,
		StaffID:      staffUUID,
		Category:     r.Category,
		SentOn:       evalDate,
	})
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}

	event := events.ReminderDueEvent{
		EventType:    "reminder_due",
		AssignmentID: r.AssignmentID,
		CompanyID:    companyID,
		StaffID:      r.StaffID,
		Category:     r.Category,
		DueDate:      r.DueDate.Format("2006-01-02"),
		EvaluatedOn:  evalDate.Format("2006-01-02"),
		OccurredAt:   w.now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return false, err
	}
	if err := w.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "assignment",
		AggregateID:   r.AssignmentID,
		EventType:     event.EventType,
		Topic:         events.ReminderDueTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return false, err
	}

	w.logger.Debug("reminder queued",
		zap.String("assignment_id", r.AssignmentID),
		zap.String("category", r.Category),
	)
	return true, nil
}
