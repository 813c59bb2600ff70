package app

import (
	"context"
	"os"

	"github.com/tonyorjime-cloud/WorNest/internal/middleware"
	"github.com/tonyorjime-cloud/WorNest/internal/rank"
	"github.com/tonyorjime-cloud/WorNest/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	router.Use(middleware.RequestID())

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	registry, err := registerModules(router, sqlDB, gormDB, redisClient)
	if err != nil {
		return err
	}

	return seedRanks(registry.rankService, logger)
}

// seedRanks loads the canonical rank hierarchy from a YAML file on
// first boot of a tenant. A tenant that already has ranks is skipped.
func seedRanks(rankService rank.Service, logger *zap.Logger) error {
	seedFile := os.Getenv("RANK_SEED_FILE")
	companyID := os.Getenv("RANK_SEED_COMPANY_ID")
	if seedFile == "" || companyID == "" {
		return nil
	}

	entries, err := rank.LoadSeedFile(seedFile)
	if err != nil {
		return err
	}
	if err := rankService.Seed(context.Background(), companyID, entries); err != nil {
		return err
	}
	logger.Info("rank seed applied",
		zap.String("file", seedFile),
		zap.String("company_id", companyID),
		zap.Int("entries", len(entries)),
	)
	return nil
}
