package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestor/internal/authz"
)

// RequireManager gates endpoints reserved for management roles (reports,
// financial ledger mutations).
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no role in context"})
			return
		}
		role, _ := v.(string)
		if !authz.IsManager(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
