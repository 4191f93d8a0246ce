package repository

import (
	"time"

	"github.com/cpopa/taskdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormTokenRepository is a GORM implementation of TokenRepository
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &GormTokenRepository{db: db}
}

// Replace deletes any existing refresh tokens for the user and stores the
// new one atomically
func (r *GormTokenRepository) Replace(userID uint64, token string, expiresAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}

		refreshToken := models.RefreshToken{
			Token:     token,
			UserID:    userID,
			ExpiresAt: expiresAt,
		}
		return tx.Create(&refreshToken).Error
	})
}

// Find finds a stored refresh token
func (r *GormTokenRepository) Find(token string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	if err := r.db.Where("token = ?", token).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes a stored refresh token
func (r *GormTokenRepository) Delete(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}

// DeleteForUser removes a refresh token belonging to the user
func (r *GormTokenRepository) DeleteForUser(userID uint64, token string) error {
	return r.db.Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.RefreshToken{}).Error
}
