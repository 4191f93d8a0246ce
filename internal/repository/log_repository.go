package repository

import (
	"github.com/cpopa/taskdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormLogRepository is a GORM implementation of LogRepository
type GormLogRepository struct {
	db *gorm.DB
}

// NewLogRepository creates a new LogRepository
func NewLogRepository(db *gorm.DB) LogRepository {
	return &GormLogRepository{db: db}
}

// CreateBatch writes one log row per addressee
func (r *GormLogRepository) CreateBatch(logs []models.ActivityLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.Create(&logs).Error
}

// ListByUser lists a user's log rows, newest first
func (r *GormLogRepository) ListByUser(userID uint64) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
