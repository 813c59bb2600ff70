package assignment

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
	assignments := r.Group("/assignments")
	assignments.Use(middleware.AuthMiddleware())
	{
		assignments.GET("", middleware.RBACAuthorize(rbacService, "assignment", "read"), handler.GetAll)
		assignments.GET("/:id", middleware.RBACAuthorize(rbacService, "assignment", "read"), handler.GetById)
		assignments.POST("", middleware.RBACAuthorize(rbacService, "assignment", "manage"), handler.Create)
		assignments.POST("/:id/complete", middleware.RBACAuthorize(rbacService, "assignment", "manage"), handler.Complete)
	}
}
