package rank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	rankerrors "github.com/tonyorjime-cloud/WorNest/internal/rank/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	directoryKeyPrefix = "ranks:directory:"
	directoryCacheTTL  = 30 * time.Minute
)

func directoryCacheKey(companyID string) string {
	return directoryKeyPrefix + companyID
}

//go:generate mockgen -source=rank_service.go -destination=mock/rank_service_mock.go -package=mock
type Service interface {
	CreateRank(ctx context.Context, companyID string, req CreateRankRequest) (RankResponse, error)
	CreateAlias(ctx context.Context, companyID string, req CreateAliasRequest) (AliasResponse, error)
	GetDirectory(ctx context.Context, companyID string) (DirectoryResponse, error)
	// Snapshot builds the immutable lookup structure the reliever
	// selector works against.
	Snapshot(ctx context.Context, companyID string) (*Directory, error)
	Resolve(ctx context.Context, companyID, raw string) (ResolveResponse, error)
	Seed(ctx context.Context, companyID string, entries []SeedRank) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("rank.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rank.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) CreateRank(ctx context.Context, companyID string, req CreateRankRequest) (RankResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RankResponse{}, rankerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RankResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rk := &Rank{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      req.Name,
		Level:     req.Level,
	}
	if err := qtx.CreateRank(ctx, rk); err != nil {
		if isUniqueViolation(err) {
			return RankResponse{}, rankerrors.ErrDuplicateRank
		}
		s.logger.Error("create rank persist failed", zap.Error(err))
		return RankResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RankResponse{}, err
	}

	s.invalidateDirectory(ctx, companyID)
	s.logger.Info("rank created",
		zap.String("company_id", companyID),
		zap.String("name", rk.Name),
		zap.Int("level", rk.Level),
	)
	return mapRankToResponse(*rk), nil
}

func (s *service) CreateAlias(ctx context.Context, companyID string, req CreateAliasRequest) (AliasResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AliasResponse{}, rankerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AliasResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	target, err := qtx.FindByNameAndCompany(ctx, companyID, req.RankName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AliasResponse{}, rankerrors.ErrAliasTargetUnknown
		}
		return AliasResponse{}, err
	}

	a := &Alias{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Value:     req.Value,
		RankName:  target.Name,
	}
	if err := qtx.CreateAlias(ctx, a); err != nil {
		if isUniqueViolation(err) {
			return AliasResponse{}, rankerrors.ErrDuplicateAlias
		}
		s.logger.Error("create alias persist failed", zap.Error(err))
		return AliasResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AliasResponse{}, err
	}

	s.invalidateDirectory(ctx, companyID)
	return mapAliasToResponse(*a), nil
}

func (s *service) GetDirectory(ctx context.Context, companyID string) (DirectoryResponse, error) {
	cacheKey := directoryCacheKey(companyID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp DirectoryResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		ranks, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		aliases, err := s.repo.FindAliasesByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		resp := DirectoryResponse{
			Ranks:   make([]RankResponse, len(ranks)),
			Aliases: make([]AliasResponse, len(aliases)),
		}
		for i, rk := range ranks {
			resp.Ranks[i] = mapRankToResponse(rk)
		}
		for i, a := range aliases {
			resp.Aliases[i] = mapAliasToResponse(a)
		}

		// Master data, a medium TTL is fine.
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, directoryCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return DirectoryResponse{}, err
	}
	return v.(DirectoryResponse), nil
}

func (s *service) Snapshot(ctx context.Context, companyID string) (*Directory, error) {
	ranks, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	aliases, err := s.repo.FindAliasesByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return NewDirectory(ranks, aliases), nil
}

func (s *service) Resolve(ctx context.Context, companyID, raw string) (ResolveResponse, error) {
	dir, err := s.Snapshot(ctx, companyID)
	if err != nil {
		return ResolveResponse{}, err
	}
	canonical, level, resolved := dir.Canonicalize(raw)
	if !resolved {
		s.logger.Warn("unresolved rank string",
			zap.String("company_id", companyID),
			zap.String("raw", raw),
		)
	}
	return ResolveResponse{
		Raw:       raw,
		Canonical: canonical,
		Level:     level,
		Resolved:  resolved,
	}, nil
}

// Seed inserts the YAML rank table for a company that has none yet.
func (s *service) Seed(ctx context.Context, companyID string, entries []SeedRank) error {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return rankerrors.ErrInvalidCompanyID
	}

	existing, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	for _, e := range entries {
		rk := &Rank{
			ID:        uuid.New(),
			CompanyID: companyUUID,
			Name:      e.Name,
			Level:     e.Level,
		}
		if err := qtx.CreateRank(ctx, rk); err != nil {
			return err
		}
		for _, alias := range e.Aliases {
			a := &Alias{
				ID:        uuid.New(),
				CompanyID: companyUUID,
				Value:     alias,
				RankName:  e.Name,
			}
			if err := qtx.CreateAlias(ctx, a); err != nil {
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateDirectory(ctx, companyID)
	s.logger.Info("rank table seeded",
		zap.String("company_id", companyID),
		zap.Int("ranks", len(entries)),
	)
	return nil
}

func (s *service) invalidateDirectory(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := directoryCacheKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("invalidate directory cache failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapRankToResponse(rk Rank) RankResponse {
	return RankResponse{
		ID:    rk.ID.String(),
		Name:  rk.Name,
		Level: rk.Level,
	}
}

func mapAliasToResponse(a Alias) AliasResponse {
	return AliasResponse{
		ID:       a.ID.String(),
		Value:    a.Value,
		RankName: a.RankName,
	}
}
