package staff

import (
	"context"
	"database/sql"

	"github.com/tonyorjime-cloud/WorNest/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=staff_repo.go -destination=mock/staff_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Staff) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Staff, error)
	FindActiveByCompany(ctx context.Context, companyID string) ([]Staff, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Staff, error)
	Update(ctx context.Context, s *Staff) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, s *Staff) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Staff, error) {
	var staff []Staff
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("full_name ASC").
		Find(&staff).Error
	return staff, err
}

func (r *repository) FindActiveByCompany(ctx context.Context, companyID string) ([]Staff, error) {
	var staff []Staff
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("active = ?", true).
		Order("id ASC").
		Find(&staff).Error
	return staff, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Staff, error) {
	var s Staff
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) Update(ctx context.Context, s *Staff) error {
	return r.db.WithContext(ctx).Save(s).Error
}
