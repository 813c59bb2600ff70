package middleware

import (
	"net/http"

	"github.com/tonyorjime-cloud/WorNest/internal/domain"

	"github.com/gin-gonic/gin"
)

type ContextKey string

const (
	ContextStaffID   ContextKey = "staff_id"
	ContextCompanyID ContextKey = "company_id"
)

// RBACService is satisfied by any type exposing Enforce, so routes do
// not couple to the concrete rbac package.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffID, ok1 := c.Get(string(ContextStaffID))
		companyID, ok2 := c.Get(string(ContextCompanyID))

		if !ok1 || !ok2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			StaffID:   staffID.(string),
			CompanyID: companyID.(string),
			Resource:  resource,
			Action:    action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "you do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
