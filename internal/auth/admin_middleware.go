package auth

import (
	"net/http"

	"gamearena/backend/internal/database"
	"gamearena/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware requires the authenticated user to have the admin role.
// It must be used after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		var profile models.Profile
		if err := database.DB.WithContext(c.Request.Context()).First(&profile, "id = ?", userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Authenticated user not found"})
			return
		}

		if profile.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}
