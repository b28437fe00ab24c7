package middleware

import (
	"net/http"
	"strings"

	"go-pos-suite/internal/auth"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware for downstream handlers
const (
	CtxUserID   = "userID"
	CtxTenantID = "tenantID"
	CtxRole     = "role"
)

// AuthMiddleware checks if the user has a valid JWT token
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get the token from the "Authorization" header
		// Format: "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// 2. Remove the "Bearer " prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			c.Abort()
			return
		}

		// 3. Validate the token
		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// 4. Store the principal in the context. Every handler reads the
		// tenant from here, never from the request body.
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxTenantID, claims.TenantID)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}

// TenantID pulls the authenticated tenant out of the gin context.
func TenantID(c *gin.Context) string {
	return c.GetString(CtxTenantID)
}

// UserID pulls the authenticated user out of the gin context.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
