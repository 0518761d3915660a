package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reserva/internal/domain"
	"reserva/internal/pkg/response"
)

// RequireRole ensures the authenticated user carries the given role claim.
func RequireRole(required domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if role.(string) != string(required) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly gates the administration surface.
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
