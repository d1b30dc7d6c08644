package handler

import (
	"strconv"

	"gamearena/backend/internal/apperr"
	"gamearena/backend/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondError answers with the status and message the error kind maps to.
// Unclassified errors are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if apperr.KindOf(err) == apperr.KindInternal || apperr.KindOf(err) == apperr.KindRegistrationFailed {
		logger.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// pageParams reads page and limit query parameters with the usual bounds.
func pageParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
