package repository

import (
	"github.com/cpopa/taskdesk-api/internal/database"
	"github.com/cpopa/taskdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormMessageRepository is a GORM implementation of MessageRepository
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

// Create persists a message
func (r *GormMessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// FindByID finds a message with sender and receiver preloaded
func (r *GormMessageRepository) FindByID(id uint64) (*models.Message, error) {
	var message models.Message
	if err := r.db.Preload("Sender").
		Preload("Receiver").
		First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// ListDirect lists the direct history between two users, oldest first
func (r *GormMessageRepository) ListDirect(userID, otherID uint64) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.
		Where("workspace_id IS NULL").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Preload("Sender").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// ListDirectByUser lists all direct messages involving the user, newest first
func (r *GormMessageRepository) ListDirectByUser(userID uint64) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.
		Where("workspace_id IS NULL").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Preload("Sender").
		Preload("Receiver").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// ListByWorkspace lists a workspace's messages with pagination, oldest first
func (r *GormMessageRepository) ListByWorkspace(workspaceID uint64, page, pageSize int) ([]models.Message, int64, error) {
	query := r.db.Model(&models.Message{}).Where("workspace_id = ?", workspaceID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	if err := query.
		Order("created_at ASC").
		Scopes(database.Paginate(page, pageSize)).
		Preload("Sender").
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
