package handlers

import (
	"net/http"

	"github.com/cpopa/taskdesk-api/internal/dto"
	apierrors "github.com/cpopa/taskdesk-api/internal/errors"
	"github.com/cpopa/taskdesk-api/internal/middleware"
	"github.com/cpopa/taskdesk-api/internal/notify"
	"github.com/cpopa/taskdesk-api/internal/services"
	"github.com/gin-gonic/gin"
)

// MessageHandler coordinates chat-related HTTP handlers. Messages sent over
// REST are fanned out through the same dispatcher the realtime hub uses, so
// connected clients see them regardless of the path they arrived on.
type MessageHandler struct {
	messageService *services.MessageService
	dispatcher     *services.Dispatcher
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *services.MessageService, dispatcher *services.Dispatcher) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		dispatcher:     dispatcher,
	}
}

// SendMessage persists a direct or workspace message and pushes it to
// connected clients.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type SendMessageRequest struct {
		ReceiverID  *uint64 `json:"receiver_id"`
		WorkspaceID *uint64 `json:"workspace_id"`
		Content     string  `json:"content" binding:"required"`
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.messageService.Send(userID, req.ReceiverID, req.WorkspaceID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	messageDTO := dto.ToMessageDTO(*message)
	event := notify.Event{Type: "receive_message", Payload: messageDTO}
	if message.ReceiverID != nil {
		h.dispatcher.NotifyUser(*message.ReceiverID, event)
	} else if message.WorkspaceID != nil {
		h.dispatcher.NotifyRoom(notify.WorkspaceRoom(*message.WorkspaceID), event)
	}

	c.JSON(http.StatusCreated, messageDTO)
}

// DirectHistory returns the direct thread with another user, oldest first.
func (h *MessageHandler) DirectHistory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	otherID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	messages, err := h.messageService.DirectHistory(userID, otherID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": dto.ToMessageDTOs(messages)})
}

// Conversations lists the caller's direct threads, most recent first.
func (h *MessageHandler) Conversations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	conversations, err := h.messageService.Conversations(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// WorkspaceHistory returns a workspace's messages. Members only.
func (h *MessageHandler) WorkspaceHistory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	workspaceID, ok := parseIDParam(c, "workspaceId")
	if !ok {
		return
	}

	page, limit := pageParams(c)
	messages, total, err := h.messageService.WorkspaceHistory(userID, workspaceID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":   dto.ToMessageDTOs(messages),
		"pagination": pageMeta{Page: page, Limit: limit, Total: total},
	})
}
