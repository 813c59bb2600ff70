package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/assignment"
	"github.com/tonyorjime-cloud/WorNest/internal/events"
	leaveerrors "github.com/tonyorjime-cloud/WorNest/internal/leave/errors"
	"github.com/tonyorjime-cloud/WorNest/internal/messaging/kafka"
	"github.com/tonyorjime-cloud/WorNest/internal/rank"
	"github.com/tonyorjime-cloud/WorNest/internal/reliever"
	"github.com/tonyorjime-cloud/WorNest/internal/shared/contextutil"
	"github.com/tonyorjime-cloud/WorNest/internal/staff"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
}

type service struct {
	db             *sql.DB
	repo           Repository
	staffRepo      staff.Repository
	assignmentRepo assignment.Repository
	rankService    rank.Service
	outbox         kafka.OutboxRepository
	locks          *staffLocks
	now            func() time.Time
	logger         *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	staffRepo staff.Repository,
	assignmentRepo assignment.Repository,
	rankService rank.Service,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithClock(db, repo, staffRepo, assignmentRepo, rankService, outboxRepo, func() time.Time {
		return time.Now().UTC()
	}, logger...)
}

// NewServiceWithClock injects the "now" source so the future-year
// relaxation boundary is testable deterministically.
func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	staffRepo staff.Repository,
	assignmentRepo assignment.Repository,
	rankService rank.Service,
	outboxRepo kafka.OutboxRepository,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:             db,
		repo:           repo,
		staffRepo:      staffRepo,
		assignmentRepo: assignmentRepo,
		rankService:    rankService,
		outbox:         outboxRepo,
		locks:          newStaffLocks(),
		now:            now,
		logger:         l,
	}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("staff_id", req.StaffID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	companyUUID, staffUUID, createdByUUID, startDate, endDate, err := validateCreateRequest(companyID, actorID, req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.StaffBelongsToCompany(ctx, companyID, req.StaffID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !belongs {
		return LeaveResponse{}, leaveerrors.ErrStaffNotInCompany
	}

	overlap, err := qtx.HasOverlappingApproved(ctx, companyID, req.StaffID, startDate, endDate, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlaps approved leave",
			zap.String("staff_id", req.StaffID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrOverlappingLeave
	}

	now := s.now()
	l := &Leave{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		StaffID:     staffUUID,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalDays:   int(endDate.Sub(startDate).Hours()/24) + 1,
		Reason:      req.Reason,
		SubmittedAt: now,
		Status:      StatusPending,
		CreatedBy:   createdByUUID,
	}

	// Eager resolution: approvers see a proposed reliever immediately.
	// Failure is recorded, never fatal; the request stays pending.
	selection, err := s.resolveReliever(ctx, qtx, companyID, req.StaffID, startDate, endDate)
	l.RelaxedSelection = selection.Relaxed
	switch {
	case err == nil:
		relieverUUID, parseErr := uuid.Parse(selection.StaffID)
		if parseErr != nil {
			return LeaveResponse{}, parseErr
		}
		l.RelieverID = &relieverUUID
	case errors.Is(err, reliever.ErrNoEligibleReliever):
		reason := err.Error()
		l.SelectionFailure = &reason
		s.logger.Warn("create leave reliever resolution failed",
			zap.String("staff_id", req.StaffID),
			zap.Bool("relaxed", selection.Relaxed),
		)
	default:
		return LeaveResponse{}, err
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("company_id", companyID),
		zap.String("staff_id", req.StaffID),
		zap.Bool("relaxed", l.RelaxedSelection),
		zap.Bool("reliever_resolved", l.RelieverID != nil),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// Approve is serialized per staff member: without that, two concurrent
// approvals could both pass the overlap check and commit overlapping
// APPROVED intervals.
func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	current, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	unlock := s.locks.acquire(current.StaffID.String())
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Re-read under the lock; the pre-lock read was only for the key.
	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !isAllowedStatusTransition(l.Status, StatusApproved) {
		s.logger.Warn("approve leave invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	// Availability is time-sensitive: the reliever proposed at
	// submission may be gone, deactivated, or on overlapping leave by
	// now. Re-resolve when the proposal no longer holds.
	ok, err := s.relieverStillEligible(ctx, qtx, companyID, l)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		selection, err := s.resolveReliever(ctx, qtx, companyID, l.StaffID.String(), l.StartDate, l.EndDate)
		if err != nil {
			s.logger.Warn("approve leave re-resolution failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
		relieverUUID, parseErr := uuid.Parse(selection.StaffID)
		if parseErr != nil {
			return LeaveResponse{}, parseErr
		}
		l.RelieverID = &relieverUUID
		l.RelaxedSelection = selection.Relaxed
		l.SelectionFailure = nil
	}

	overlap, err := qtx.HasOverlappingApproved(ctx, companyID, l.StaffID.String(), l.StartDate, l.EndDate, &id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrOverlappingLeave
	}

	now := s.now()
	l.Status = StatusApproved
	l.ApprovedBy = &actorUUID
	l.ApprovedAt = &now
	l.RejectionReason = nil

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("approve leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if s.outbox != nil {
		if err := s.queueApprovedEvent(ctx, tx, l); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve leave commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("approve leave success",
		zap.String("leave_id", id),
		zap.String("staff_id", l.StaffID.String()),
		zap.String("reliever_id", l.RelieverID.String()),
		zap.Bool("relaxed", l.RelaxedSelection),
	)
	return mapToResponse(*l), nil
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error) {
	if rejectionReason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}
	return s.transition(ctx, companyID, actorID, id, StatusRejected, &rejectionReason)
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusCancelled, nil)
}

func (s *service) transition(ctx context.Context, companyID, actorID, id, targetStatus string, rejectionReason *string) (LeaveResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !isAllowedStatusTransition(l.Status, targetStatus) {
		s.logger.Warn("leave transition invalid",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	l.Status = targetStatus
	if targetStatus == StatusRejected {
		l.RejectionReason = rejectionReason
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("leave transition persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave transition success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

// isAllowedStatusTransition encodes the state machine:
// PENDING -> APPROVED | REJECTED | CANCELLED, APPROVED -> CANCELLED.
// REJECTED and CANCELLED are terminal.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusPending:
		return targetStatus == StatusApproved ||
			targetStatus == StatusRejected ||
			targetStatus == StatusCancelled
	case StatusApproved:
		return targetStatus == StatusCancelled
	default:
		return false
	}
}

// resolveReliever builds the eligible pool snapshot and runs the
// selector. The pool excludes the requester, inactive staff, and anyone
// with approved leave overlapping the requested interval.
func (s *service) resolveReliever(ctx context.Context, qtx Repository, companyID, staffID string, startDate, endDate time.Time) (reliever.Selection, error) {
	active, err := s.staffRepo.FindActiveByCompany(ctx, companyID)
	if err != nil {
		return reliever.Selection{}, err
	}

	onLeave, err := qtx.FindApprovedOverlapping(ctx, companyID, startDate, endDate)
	if err != nil {
		return reliever.Selection{}, err
	}
	unavailable := make(map[string]struct{}, len(onLeave))
	for _, ol := range onLeave {
		unavailable[ol.StaffID.String()] = struct{}{}
	}

	loads, err := s.assignmentRepo.CountOpenByStaff(ctx, companyID)
	if err != nil {
		return reliever.Selection{}, err
	}

	var requesterRank string
	pool := make([]reliever.Candidate, 0, len(active))
	for _, st := range active {
		sid := st.ID.String()
		if sid == staffID {
			requesterRank = st.RankRaw
			continue
		}
		if _, busy := unavailable[sid]; busy {
			continue
		}
		pool = append(pool, reliever.Candidate{
			StaffID:   sid,
			RankRaw:   st.RankRaw,
			OpenTasks: loads[sid],
		})
	}

	dir, err := s.rankService.Snapshot(ctx, companyID)
	if err != nil {
		return reliever.Selection{}, err
	}

	selection, err := reliever.Resolve(reliever.Request{
		RequesterID:      staffID,
		RequesterRankRaw: requesterRank,
		StartDate:        startDate,
		EndDate:          endDate,
		Now:              s.now(),
	}, pool, dir)
	if err == nil && !selection.RequesterResolved {
		s.logger.Warn("requester rank unresolved, selection proceeded",
			zap.String("staff_id", staffID),
			zap.String("rank_raw", requesterRank),
		)
	}
	return selection, err
}

func (s *service) relieverStillEligible(ctx context.Context, qtx Repository, companyID string, l *Leave) (bool, error) {
	if l.RelieverID == nil {
		return false, nil
	}
	relieverID := l.RelieverID.String()
	if relieverID == l.StaffID.String() {
		return false, nil
	}

	active, err := qtx.StaffBelongsToCompany(ctx, companyID, relieverID)
	if err != nil {
		return false, err
	}
	if !active {
		return false, nil
	}

	busy, err := qtx.HasOverlappingApproved(ctx, companyID, relieverID, l.StartDate, l.EndDate, nil)
	if err != nil {
		return false, err
	}
	return !busy, nil
}

func (s *service) queueApprovedEvent(ctx context.Context, tx *sql.Tx, l *Leave) error {
	event := events.LeaveApprovedEvent{
		EventType:  "leave_approved",
		LeaveID:    l.ID.String(),
		CompanyID:  l.CompanyID.String(),
		StaffID:    l.StaffID.String(),
		RelieverID: l.RelieverID.String(),
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		Relaxed:    l.RelaxedSelection,
		OccurredAt: s.now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveApprovedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("approve leave outbox persist failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func validateCreateRequest(companyID, actorID string, req CreateLeaveRequest) (uuid.UUID, uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidCompanyID
	}
	staffUUID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidStaffID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidActorID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return companyUUID, staffUUID, createdByUUID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:               l.ID.String(),
		CompanyID:        l.CompanyID.String(),
		StaffID:          l.StaffID.String(),
		StartDate:        l.StartDate.Format("2006-01-02"),
		EndDate:          l.EndDate.Format("2006-01-02"),
		TotalDays:        l.TotalDays,
		Reason:           l.Reason,
		SubmittedAt:      l.SubmittedAt.Format(time.RFC3339),
		Status:           l.Status,
		RelaxedSelection: l.RelaxedSelection,
		SelectionFailure: l.SelectionFailure,
		CreatedBy:        l.CreatedBy.String(),
	}
	if l.RelieverID != nil {
		v := l.RelieverID.String()
		resp.RelieverID = &v
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
