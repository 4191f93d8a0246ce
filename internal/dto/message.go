package dto

import (
	"time"

	"github.com/cpopa/taskdesk-api/internal/models"
)

// MessageDTO represents a message in API responses
type MessageDTO struct {
	ID          uint64    `json:"id"`
	SenderID    uint64    `json:"sender_id"`
	ReceiverID  *uint64   `json:"receiver_id,omitempty"`
	WorkspaceID *uint64   `json:"workspace_id,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	Sender      *UserDTO  `json:"sender,omitempty"`
}

// ToMessageDTO converts a Message model to MessageDTO
func ToMessageDTO(message models.Message) MessageDTO {
	dto := MessageDTO{
		ID:          message.ID,
		SenderID:    message.SenderID,
		ReceiverID:  message.ReceiverID,
		WorkspaceID: message.WorkspaceID,
		Content:     message.Content,
		CreatedAt:   message.CreatedAt,
	}

	if message.Sender.ID != 0 {
		sender := ToUserDTO(message.Sender)
		dto.Sender = &sender
	}

	return dto
}

// ToMessageDTOs converts a slice of Message models
func ToMessageDTOs(messages []models.Message) []MessageDTO {
	dtos := make([]MessageDTO, len(messages))
	for i, message := range messages {
		dtos[i] = ToMessageDTO(message)
	}
	return dtos
}
