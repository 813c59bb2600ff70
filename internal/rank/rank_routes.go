package rank

import (
	"github.com/tonyorjime-cloud/WorNest/internal/middleware"
	"github.com/tonyorjime-cloud/WorNest/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	ranks := r.Group("/ranks")
	ranks.Use(middleware.AuthMiddleware())
	{
		ranks.GET("", middleware.RBACAuthorize(rbacService, "rank", "read"), handler.GetDirectory)
		ranks.GET("/resolve",
			middleware.RateLimitByIP(10, 30),
			middleware.RBACAuthorize(rbacService, "rank", "read"),
			handler.Resolve,
		)
		ranks.POST("", middleware.RBACAuthorize(rbacService, "rank", "manage"), handler.CreateRank)
		ranks.POST("/aliases", middleware.RBACAuthorize(rbacService, "rank", "manage"), handler.CreateAlias)
	}
}
