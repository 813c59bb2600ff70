package rank_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/rank"
	rankerrors "github.com/tonyorjime-cloud/WorNest/internal/rank/errors"

	"github.com/DATA-DOG/go-sqlmock"
	redismock "github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type fakeRankRepository struct {
	createRankFn           func(ctx context.Context, r *rank.Rank) error
	createAliasFn          func(ctx context.Context, a *rank.Alias) error
	findAllByCompanyFn     func(ctx context.Context, companyID string) ([]rank.Rank, error)
	findAliasesByCompanyFn func(ctx context.Context, companyID string) ([]rank.Alias, error)
	findByNameAndCompanyFn func(ctx context.Context, companyID, name string) (*rank.Rank, error)
}

func (f *fakeRankRepository) WithTx(tx *sql.Tx) rank.Repository { return f }

func (f *fakeRankRepository) CreateRank(ctx context.Context, r *rank.Rank) error {
	if f.createRankFn != nil {
		return f.createRankFn(ctx, r)
	}
	return nil
}

func (f *fakeRankRepository) CreateAlias(ctx context.Context, a *rank.Alias) error {
	if f.createAliasFn != nil {
		return f.createAliasFn(ctx, a)
	}
	return nil
}

func (f *fakeRankRepository) FindAllByCompany(ctx context.Context, companyID string) ([]rank.Rank, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeRankRepository) FindAliasesByCompany(ctx context.Context, companyID string) ([]rank.Alias, error) {
	if f.findAliasesByCompanyFn != nil {
		return f.findAliasesByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeRankRepository) FindByNameAndCompany(ctx context.Context, companyID, name string) (*rank.Rank, error) {
	if f.findByNameAndCompanyFn != nil {
		return f.findByNameAndCompanyFn(ctx, companyID, name)
	}
	return nil, nil
}

func TestRankService_CreateRank(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success invalidates directory cache", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeRankRepository{}
		svc := rank.NewService(db, repo, rdb)

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		redisMock.ExpectDel("ranks:directory:" + companyID).SetVal(1)

		resp, err := svc.CreateRank(ctx, companyID, rank.CreateRankRequest{Name: "Engineer", Level: 3})

		assert.NoError(t, err)
		assert.Equal(t, "Engineer", resp.Name)
		assert.Equal(t, 3, resp.Level)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate level maps to domain error", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		rdb, _ := redismock.NewClientMock()
		repo := &fakeRankRepository{
			createRankFn: func(ctx context.Context, r *rank.Rank) error {
				return &pgconn.PgError{Code: "23505"}
			},
		}
		svc := rank.NewService(db, repo, rdb)

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		_, err = svc.CreateRank(ctx, companyID, rank.CreateRankRequest{Name: "Engineer", Level: 3})

		assert.True(t, errors.Is(err, rankerrors.ErrDuplicateRank))
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestRankService_GetDirectory(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	cacheKey := "ranks:directory:" + companyID

	t.Run("cache miss loads from repo and fills cache", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeRankRepository{
			findAllByCompanyFn: func(ctx context.Context, cid string) ([]rank.Rank, error) {
				return []rank.Rank{{ID: uuid.New(), Name: "Engineer", Level: 3}}, nil
			},
			findAliasesByCompanyFn: func(ctx context.Context, cid string) ([]rank.Alias, error) {
				return []rank.Alias{{ID: uuid.New(), Value: "sr. eng", RankName: "Engineer"}}, nil
			},
		}
		svc := rank.NewService(db, repo, rdb)

		redisMock.ExpectGet(cacheKey).RedisNil()
		redisMock.Regexp().ExpectSet(cacheKey, `.*`, 30*time.Minute).SetVal("OK")

		resp, err := svc.GetDirectory(ctx, companyID)

		assert.NoError(t, err)
		assert.Len(t, resp.Ranks, 1)
		assert.Len(t, resp.Aliases, 1)
		assert.Equal(t, "Engineer", resp.Ranks[0].Name)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache hit skips the repo", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		rdb, redisMock := redismock.NewClientMock()
		repoCalled := false
		repo := &fakeRankRepository{
			findAllByCompanyFn: func(ctx context.Context, cid string) ([]rank.Rank, error) {
				repoCalled = true
				return nil, nil
			},
		}
		svc := rank.NewService(db, repo, rdb)

		cached, _ := json.Marshal(rank.DirectoryResponse{
			Ranks: []rank.RankResponse{{ID: uuid.New().String(), Name: "Manager", Level: 5}},
		})
		redisMock.ExpectGet(cacheKey).SetVal(string(cached))

		resp, err := svc.GetDirectory(ctx, companyID)

		assert.NoError(t, err)
		assert.False(t, repoCalled)
		assert.Len(t, resp.Ranks, 1)
		assert.Equal(t, "Manager", resp.Ranks[0].Name)
	})
}

func TestRankService_Resolve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rdb, _ := redismock.NewClientMock()
	repo := &fakeRankRepository{
		findAllByCompanyFn: func(ctx context.Context, cid string) ([]rank.Rank, error) {
			return []rank.Rank{{Name: "Engineer", Level: 3}}, nil
		},
		findAliasesByCompanyFn: func(ctx context.Context, cid string) ([]rank.Alias, error) {
			return []rank.Alias{{Value: "Sr. Eng", RankName: "Engineer"}}, nil
		},
	}
	svc := rank.NewService(db, repo, rdb)

	t.Run("alias resolves", func(t *testing.T) {
		resp, err := svc.Resolve(ctx, companyID, "sr.  ENG")
		assert.NoError(t, err)
		assert.True(t, resp.Resolved)
		assert.Equal(t, "Engineer", resp.Canonical)
		assert.Equal(t, 3, resp.Level)
	})

	t.Run("unknown returns sentinel without error", func(t *testing.T) {
		resp, err := svc.Resolve(ctx, companyID, "Chief Vibes Officer")
		assert.NoError(t, err)
		assert.False(t, resp.Resolved)
		assert.Equal(t, rank.UnknownName, resp.Canonical)
		assert.Equal(t, rank.UnknownLevel, resp.Level)
	})
}

func TestRankService_Seed(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("seeds empty company", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		rdb, redisMock := redismock.NewClientMock()

		var ranksCreated, aliasesCreated int
		repo := &fakeRankRepository{
			createRankFn: func(ctx context.Context, r *rank.Rank) error {
				ranksCreated++
				return nil
			},
			createAliasFn: func(ctx context.Context, a *rank.Alias) error {
				aliasesCreated++
				return nil
			},
		}
		svc := rank.NewService(db, repo, rdb)

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		redisMock.ExpectDel("ranks:directory:" + companyID).SetVal(1)

		err = svc.Seed(ctx, companyID, []rank.SeedRank{
			{Name: "Officer", Level: 2, Aliases: []string{"staff officer"}},
			{Name: "Engineer", Level: 3, Aliases: []string{"sr. eng", "eng"}},
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, ranksCreated)
		assert.Equal(t, 3, aliasesCreated)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("skips company that already has ranks", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		rdb, _ := redismock.NewClientMock()
		repo := &fakeRankRepository{
			findAllByCompanyFn: func(ctx context.Context, cid string) ([]rank.Rank, error) {
				return []rank.Rank{{Name: "Officer", Level: 2}}, nil
			},
			createRankFn: func(ctx context.Context, r *rank.Rank) error {
				t.Fatal("seed must not insert when ranks exist")
				return nil
			},
		}
		svc := rank.NewService(db, repo, rdb)

		err = svc.Seed(ctx, companyID, []rank.SeedRank{{Name: "Officer", Level: 2}})

		assert.NoError(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}
