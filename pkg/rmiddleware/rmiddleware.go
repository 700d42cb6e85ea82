package rmiddleware

import (
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/gin-gonic/gin"
)

// RoleMiddleware lets the request through when the principal set by the
// auth middleware holds one of requiredRoles.
func RoleMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := common.PrincipalFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized: " + err.Error(), "code": http.StatusUnauthorized})
			return
		}

		for _, role := range requiredRoles {
			if strings.EqualFold(p.Role, role) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"status":   "error",
			"message":  "You don't have permission to access this resource",
			"code":     http.StatusForbidden,
			"required": requiredRoles,
		})
	}
}

// AdminMiddleware is a convenience middleware for admin-only access
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(common.RoleAdmin)
}
