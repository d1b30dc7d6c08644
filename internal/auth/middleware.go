package auth

import (
	"net/http"
	"strings"

	"gamearena/backend/internal/config"
	"gamearena/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// userIDFromHeader returns the user id of a valid bearer token, or "".
func userIDFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	userID, err := jwt.ParseToken(parts[1], config.AppConfig.JWTSecret)
	if err != nil {
		return ""
	}
	return userID
}

// AuthMiddleware rejects requests without a valid bearer token and sets
// "userID" on the context otherwise.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := userIDFromHeader(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalAuthMiddleware sets "userID" when a valid token is present but lets
// anonymous requests through.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := userIDFromHeader(c); userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString("userID")
}
