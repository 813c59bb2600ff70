package reminder

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
	reminders := r.Group("/reminders")
	reminders.Use(middleware.AuthMiddleware())
	{
		reminders.GET("", middleware.RBACAuthorize(rbacService, "reminder", "read"), handler.Evaluate)
		reminders.GET("/dispatches", middleware.RBACAuthorize(rbacService, "reminder", "read"), handler.Dispatches)
	}

	// Param name must match the staff routes sharing this prefix.
	alerts := r.Group("/staff")
	alerts.Use(middleware.AuthMiddleware())
	{
		alerts.GET("/:id/alerts", middleware.RBACAuthorize(rbacService, "reminder", "read"), handler.StaffAlerts)
	}
}
