// server/internal/api/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"safaipak-api-server/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

// Authenticate verifies the bearer token and stores the caller's email and
// role in the request context.
func Authenticate(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header is required", "error": "unauthorized"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token format", "error": "unauthorized"})
			return
		}

		claims, err := m.ParseJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token", "error": err.Error()})
			return
		}

		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)
		c.Next()
	}
}

// Authorize only lets through callers whose role is one of allowedRoles.
// It must run after Authenticate.
func Authorize(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(ctxUserRole)
		if userRole == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "User role not found in context", "error": "internal"})
			return
		}

		for _, role := range allowedRoles {
			if role == userRole {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not have permission to access this resource", "error": "forbidden"})
	}
}
