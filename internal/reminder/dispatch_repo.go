package reminder

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/tenant"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=dispatch_repo.go -destination=mock/dispatch_repo_mock.go -package=mock
type DispatchRepository interface {
	WithTx(tx *sql.Tx) DispatchRepository
	// Record inserts a dispatch row. It returns false without error
	// when the (assignment, category, day) tuple was already recorded.
	Record(ctx context.Context, d *Dispatch) (bool, error)
	FindBySentOn(ctx context.Context, companyID string, sentOn time.Time) ([]Dispatch, error)
	CompanyIDs(ctx context.Context) ([]string, error)
}

type dispatchRepository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewDispatchRepository(db *gorm.DB) DispatchRepository {
	return &dispatchRepository{db: db}
}

func (r *dispatchRepository) WithTx(tx *sql.Tx) DispatchRepository {
	return &dispatchRepository{db: r.db, tx: tx}
}

func (r *dispatchRepository) Record(ctx context.Context, d *Dispatch) (bool, error) {
	err := r.db.WithContext(ctx).Create(d).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *dispatchRepository) FindBySentOn(ctx context.Context, companyID string, sentOn time.Time) ([]Dispatch, error) {
	var dispatches []Dispatch
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("sent_on = ?", sentOn).
		Order("created_at ASC").
		Find(&dispatches).Error
	return dispatches, err
}

// CompanyIDs lists every tenant with open assignments, driving the
// per-company sweep loop.
func (r *dispatchRepository) CompanyIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("assignments").
		Distinct("company_id::text").
		Where("status = ?", "OPEN").
		Pluck("company_id", &ids).Error
	return ids, err
}
