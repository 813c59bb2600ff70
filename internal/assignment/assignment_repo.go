package assignment

import (
	"context"
	"database/sql"

	"github.com/tonyorjime-cloud/WorNest/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=assignment_repo.go -destination=mock/assignment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Assignment) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Assignment, error)
	FindOpenByCompany(ctx context.Context, companyID string) ([]Assignment, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Assignment, error)
	Update(ctx context.Context, a *Assignment) error
	CountOpenByStaff(ctx context.Context, companyID string) (map[string]int, error)
	StaffBelongsToCompany(ctx context.Context, companyID, staffID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, a *Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Assignment, error) {
	var assignments []Assignment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("due_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *repository) FindOpenByCompany(ctx context.Context, companyID string) ([]Assignment, error) {
	var assignments []Assignment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusOpen).
		Order("due_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Assignment, error) {
	var a Assignment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) Update(ctx context.Context, a *Assignment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// CountOpenByStaff returns open-assignment counts keyed by staff id,
// used as the reliever selection load tie-break.
func (r *repository) CountOpenByStaff(ctx context.Context, companyID string) (map[string]int, error) {
	type row struct {
		StaffID string
		Total   int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&Assignment{}).
		Select("staff_id::text AS staff_id, COUNT(*) AS total").
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusOpen).
		Group("staff_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, rw := range rows {
		counts[rw.StaffID] = rw.Total
	}
	return counts, nil
}

func (r *repository) StaffBelongsToCompany(ctx context.Context, companyID, staffID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("staff").
		Where("id = ?", staffID).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count > 0, err
}
