package app

import (
	"database/sql"
	"path/filepath"

	"github.com/tonyorjime-cloud/WorNest/internal/assignment"
	"github.com/tonyorjime-cloud/WorNest/internal/leave"
	"github.com/tonyorjime-cloud/WorNest/internal/messaging/kafka"
	"github.com/tonyorjime-cloud/WorNest/internal/rank"
	"github.com/tonyorjime-cloud/WorNest/internal/rbac"
	"github.com/tonyorjime-cloud/WorNest/internal/rbac/infra"
	"github.com/tonyorjime-cloud/WorNest/internal/reminder"
	"github.com/tonyorjime-cloud/WorNest/internal/staff"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type moduleRegistry struct {
	rankService rank.Service
}

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) (*moduleRegistry, error) {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	rankRepo := rank.NewRepository(gormDB)
	staffRepo := staff.NewRepository(gormDB)
	assignmentRepo := assignment.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	dispatchRepo := reminder.NewDispatchRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	rankService := rank.NewService(db, rankRepo, rdb)
	staffService := staff.NewService(db, staffRepo)
	assignmentService := assignment.NewService(db, assignmentRepo)
	leaveService := leave.NewService(db, leaveRepo, staffRepo, assignmentRepo, rankService, outboxRepo)
	reminderService := reminder.NewService(assignmentRepo, leaveRepo, dispatchRepo)

	// --- Handlers ---
	rbacHandler := rbac.NewHandler(rbacService)
	rankHandler := rank.NewHandler(rankService)
	staffHandler := staff.NewHandler(staffService)
	assignmentHandler := assignment.NewHandler(assignmentService)
	leaveHandler := leave.NewHandler(leaveService)
	reminderHandler := reminder.NewHandler(reminderService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		rbac.RegisterRoutes(api, rbacHandler)
		rank.RegisterRoutes(api, rankHandler, rbacService)
		staff.RegisterRoutes(api, staffHandler, rbacService, zap.L())
		assignment.RegisterRoutes(api, assignmentHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		reminder.RegisterRoutes(api, reminderHandler, rbacService)
	}

	return &moduleRegistry{rankService: rankService}, nil
}
