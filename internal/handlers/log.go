package handlers

import (
	"net/http"

	apierrors "github.com/cpopa/taskdesk-api/internal/errors"
	"github.com/cpopa/taskdesk-api/internal/middleware"
	"github.com/cpopa/taskdesk-api/internal/services"
	"github.com/gin-gonic/gin"
)

// LogHandler serves the activity feed.
type LogHandler struct {
	logService *services.LogService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(logService *services.LogService) *LogHandler {
	return &LogHandler{
		logService: logService,
	}
}

// ListLogs returns the caller's activity entries, newest first.
func (h *LogHandler) ListLogs(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	logs, err := h.logService.ListLogs(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
