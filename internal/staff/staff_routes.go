package staff

import (
	"github.com/tonyorjime-cloud/WorNest/internal/middleware"
	"github.com/tonyorjime-cloud/WorNest/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	staff := r.Group("/staff")
	staff.Use(middleware.AuthMiddleware())
	staff.Use(middleware.ContextLogger(logger))
	{
		staff.GET("",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "staff", "read"),
			handler.GetAll,
		)
		staff.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "staff", "read"),
			handler.GetById,
		)
		staff.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "staff", "manage"),
			handler.Create,
		)
		staff.PUT("/:id",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "staff", "manage"),
			handler.Update,
		)
		staff.POST("/:id/deactivate",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "staff", "manage"),
			handler.Deactivate,
		)
	}
}
