package rank

import (
	"context"
	"database/sql"

	"github.com/tonyorjime-cloud/WorNest/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rank_repo.go -destination=mock/rank_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateRank(ctx context.Context, r *Rank) error
	CreateAlias(ctx context.Context, a *Alias) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Rank, error)
	FindAliasesByCompany(ctx context.Context, companyID string) ([]Alias, error)
	FindByNameAndCompany(ctx context.Context, companyID, name string) (*Rank, error)
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

func (r *repository) CreateRank(ctx context.Context, rk *Rank) error {
	return r.db.WithContext(ctx).Create(rk).Error
}

func (r *repository) CreateAlias(ctx context.Context, a *Alias) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Rank, error) {
	var ranks []Rank
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("level ASC").
		Find(&ranks).Error
	return ranks, err
}

func (r *repository) FindAliasesByCompany(ctx context.Context, companyID string) ([]Alias, error) {
	var aliases []Alias
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("value ASC").
		Find(&aliases).Error
	return aliases, err
}

func (r *repository) FindByNameAndCompany(ctx context.Context, companyID, name string) (*Rank, error) {
	var rk Rank
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&rk, "lower(name) = lower(?)", name).Error
	return &rk, err
}
