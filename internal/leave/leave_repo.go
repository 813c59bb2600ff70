package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Leave, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Leave, error)
	Update(ctx context.Context, l *Leave) error
	StaffBelongsToCompany(ctx context.Context, companyID, staffID string) (bool, error)
	HasOverlappingApproved(ctx context.Context, companyID, staffID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	FindApprovedOverlapping(ctx context.Context, companyID string, startDate, endDate time.Time) ([]Leave, error)
	FindApprovedCovering(ctx context.Context, companyID string, date time.Time) ([]Leave, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) StaffBelongsToCompany(ctx context.Context, companyID, staffID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("staff").
		Where("id = ?", staffID).
		Where("company_id = ?", companyID).
		Where("active = ?", true).
		Count(&count).Error
	return count > 0, err
}

// HasOverlappingApproved is the invariant check: does this staff member
// already have an APPROVED leave intersecting [startDate, endDate]?
func (r *repository) HasOverlappingApproved(ctx context.Context, companyID, staffID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Leave{}).
		Scopes(tenant.Scope(companyID)).
		Where("staff_id = ?", staffID).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// FindApprovedOverlapping lists all approved leaves intersecting the
// interval, used to exclude staff already on leave from the eligible
// reliever pool.
func (r *repository) FindApprovedOverlapping(ctx context.Context, companyID string, startDate, endDate time.Time) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Find(&leaves).Error
	return leaves, err
}

// FindApprovedCovering lists approved leaves whose interval contains the
// given date, used by reminder suppression.
func (r *repository) FindApprovedCovering(ctx context.Context, companyID string, date time.Time) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", date, date).
		Find(&leaves).Error
	return leaves, err
}
