package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// notFound writes the generic not-found response used for unknown slugs,
// usernames, and post ids alike.
func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
}

// serverError logs the underlying cause and writes a generic server error.
// Store-level failures are not retried or partially handled.
func serverError(c *gin.Context, logger *zap.Logger, message string, err error) {
	logger.Error(message, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}
