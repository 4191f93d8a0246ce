package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/repository"
)

var (
	ErrMessageContentRequired = errors.New("message content is required")
	ErrMessageTargetRequired  = errors.New("message must have a receiver or a workspace")
)

// Conversation summarizes a direct-message thread with one partner.
type Conversation struct {
	Partner     models.User    `json:"partner"`
	LastMessage models.Message `json:"last_message"`
}

// MessageService persists and reads direct and workspace chat. It also backs
// the realtime hub's inbound send path.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	policy      *AccessPolicy
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, policy *AccessPolicy) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		policy:      policy,
	}
}

// SaveMessage validates and persists a chat message. Exactly one of
// receiverID and workspaceID must be set; workspace messages require the
// sender to be a member. It satisfies the hub's store contract, which is why
// the message comes back as interface{}.
func (s *MessageService) SaveMessage(_ context.Context, senderID uint64, receiverID, workspaceID *uint64, content string) (interface{}, error) {
	message, err := s.Send(senderID, receiverID, workspaceID, content)
	if err != nil {
		return nil, err
	}
	return message, nil
}

// Send persists a chat message and returns it with sender hydrated.
func (s *MessageService) Send(senderID uint64, receiverID, workspaceID *uint64, content string) (*models.Message, error) {
	if content == "" {
		return nil, ErrMessageContentRequired
	}
	if (receiverID == nil) == (workspaceID == nil) {
		return nil, ErrMessageTargetRequired
	}

	if workspaceID != nil {
		if _, err := s.policy.RequireMembership(senderID, *workspaceID); err != nil {
			return nil, err
		}
	}

	message := &models.Message{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		WorkspaceID: workspaceID,
		Content:     content,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	return s.messageRepo.FindByID(message.ID)
}

// DirectHistory returns the direct thread between the actor and another
// user, oldest first.
func (s *MessageService) DirectHistory(actorID, otherID uint64) ([]models.Message, error) {
	return s.messageRepo.ListDirect(actorID, otherID)
}

// Conversations lists the actor's direct threads, one entry per partner,
// most recent first.
func (s *MessageService) Conversations(actorID uint64) ([]Conversation, error) {
	messages, err := s.messageRepo.ListDirectByUser(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	conversations := make([]Conversation, 0)
	seen := make(map[uint64]bool)
	for _, message := range messages {
		partnerID := message.SenderID
		partner := message.Sender
		if partnerID == actorID && message.ReceiverID != nil {
			partnerID = *message.ReceiverID
			if message.Receiver != nil {
				partner = *message.Receiver
			}
		}
		if seen[partnerID] {
			continue
		}
		seen[partnerID] = true
		conversations = append(conversations, Conversation{
			Partner:     partner,
			LastMessage: message,
		})
	}

	return conversations, nil
}

// WorkspaceHistory returns a workspace's messages, oldest first. Members only.
func (s *MessageService) WorkspaceHistory(actorID, workspaceID uint64, page, pageSize int) ([]models.Message, int64, error) {
	if _, err := s.policy.RequireMembership(actorID, workspaceID); err != nil {
		return nil, 0, err
	}
	return s.messageRepo.ListByWorkspace(workspaceID, page, pageSize)
}
