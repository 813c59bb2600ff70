package assignment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	assignmenterrors "github.com/tonyorjime-cloud/WorNest/internal/assignment/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=assignment_service.go -destination=mock/assignment_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateAssignmentRequest) (AssignmentResponse, error)
	GetAll(ctx context.Context, companyID string) ([]AssignmentResponse, error)
	GetByID(ctx context.Context, companyID, id string) (AssignmentResponse, error)
	Complete(ctx context.Context, companyID, id string, completedOn time.Time) (AssignmentResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("assignment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assignment.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateAssignmentRequest) (AssignmentResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidCompanyID
	}
	staffUUID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidStaffID
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return AssignmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.StaffBelongsToCompany(ctx, companyID, req.StaffID)
	if err != nil {
		return AssignmentResponse{}, err
	}
	if !belongs {
		return AssignmentResponse{}, assignmenterrors.ErrStaffNotInCompany
	}

	daysAllotted := req.DaysAllotted
	if daysAllotted < 1 {
		daysAllotted = 1
	}

	a := &Assignment{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		StaffID:      staffUUID,
		Title:        req.Title,
		ProjectCode:  req.ProjectCode,
		DueDate:      dueDate,
		DaysAllotted: daysAllotted,
		Status:       StatusOpen,
	}
	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("create assignment persist failed", zap.Error(err))
		return AssignmentResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AssignmentResponse{}, err
	}

	s.logger.Info("assignment created",
		zap.String("assignment_id", a.ID.String()),
		zap.String("staff_id", req.StaffID),
		zap.String("due_date", req.DueDate),
	)
	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]AssignmentResponse, error) {
	assignments, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (AssignmentResponse, error) {
	a, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Complete(ctx context.Context, companyID, id string, completedOn time.Time) (AssignmentResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, err
	}
	if a.Status == StatusCompleted {
		return AssignmentResponse{}, assignmenterrors.ErrAlreadyCompleted
	}

	a.Status = StatusCompleted
	completed := completedOn.UTC().Truncate(24 * time.Hour)
	a.CompletedAt = &completed

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("complete assignment persist failed",
			zap.String("assignment_id", id),
			zap.Error(err),
		)
		return AssignmentResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AssignmentResponse{}, err
	}

	s.logger.Info("assignment completed",
		zap.String("assignment_id", id),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*a), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, assignmenterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(a Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:           a.ID.String(),
		CompanyID:    a.CompanyID.String(),
		StaffID:      a.StaffID.String(),
		Title:        a.Title,
		ProjectCode:  a.ProjectCode,
		DueDate:      a.DueDate.Format("2006-01-02"),
		DaysAllotted: a.DaysAllotted,
		Status:       a.Status,
	}
	if a.CompletedAt != nil {
		v := a.CompletedAt.Format("2006-01-02")
		resp.CompletedAt = &v

		// DaysTaken is derived, never stored: calendar days from
		// creation to completion, inclusive.
		days := int(a.CompletedAt.Sub(a.CreatedAt.Truncate(24*time.Hour)).Hours()/24) + 1
		if days < 1 {
			days = 1
		}
		resp.DaysTaken = &days
	}
	return resp
}
