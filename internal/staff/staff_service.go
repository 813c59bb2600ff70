package staff

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/shared/contextutil"
	stafferrors "github.com/tonyorjime-cloud/WorNest/internal/staff/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=staff_service.go -destination=mock/staff_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateStaffRequest) (StaffResponse, error)
	GetAll(ctx context.Context, companyID string) ([]StaffResponse, error)
	GetByID(ctx context.Context, companyID, id string) (StaffResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateStaffRequest) (StaffResponse, error)
	Deactivate(ctx context.Context, companyID, id string) (StaffResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("staff.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("staff.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateStaffRequest) (StaffResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return StaffResponse{}, stafferrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StaffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	st := &Staff{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		FullName:  req.FullName,
		Email:     req.Email,
		RankRaw:   req.RankRaw,
		Active:    true,
	}
	if err := qtx.Create(ctx, st); err != nil {
		if isUniqueViolation(err) {
			return StaffResponse{}, stafferrors.ErrDuplicateEmail
		}
		s.logger.Error("create staff persist failed", zap.Error(err))
		return StaffResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return StaffResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("staff created",
		zap.String("staff_id", st.ID.String()),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*st), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]StaffResponse, error) {
	staff, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]StaffResponse, len(staff))
	for i, st := range staff {
		resp[i] = mapToResponse(st)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (StaffResponse, error) {
	st, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StaffResponse{}, stafferrors.ErrStaffNotFound
		}
		return StaffResponse{}, err
	}
	return mapToResponse(*st), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateStaffRequest) (StaffResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StaffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	st, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StaffResponse{}, stafferrors.ErrStaffNotFound
		}
		return StaffResponse{}, err
	}

	st.FullName = req.FullName
	st.Email = req.Email
	st.RankRaw = req.RankRaw

	if err := qtx.Update(ctx, st); err != nil {
		if isUniqueViolation(err) {
			return StaffResponse{}, stafferrors.ErrDuplicateEmail
		}
		return StaffResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return StaffResponse{}, err
	}
	return mapToResponse(*st), nil
}

func (s *service) Deactivate(ctx context.Context, companyID, id string) (StaffResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StaffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	st, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StaffResponse{}, stafferrors.ErrStaffNotFound
		}
		return StaffResponse{}, err
	}
	if !st.Active {
		return StaffResponse{}, stafferrors.ErrAlreadyInactive
	}

	st.Active = false
	if err := qtx.Update(ctx, st); err != nil {
		return StaffResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return StaffResponse{}, err
	}

	meta := contextutil.ExtractMetadata(ctx)
	contextutil.GetLogger(ctx, s.logger).Info("staff deactivated",
		zap.String("staff_id", id),
		zap.String("company_id", companyID),
		zap.String("request_id", meta.RequestID),
		zap.String("actor_id", meta.UserID),
	)
	return mapToResponse(*st), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(st Staff) StaffResponse {
	resp := StaffResponse{
		ID:        st.ID.String(),
		CompanyID: st.CompanyID.String(),
		FullName:  st.FullName,
		Email:     st.Email,
		RankRaw:   st.RankRaw,
		Active:    st.Active,
	}
	if !st.CreatedAt.IsZero() {
		resp.CreatedAt = st.CreatedAt.Format(time.RFC3339)
	}
	if !st.UpdatedAt.IsZero() {
		resp.UpdatedAt = st.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
