package services

import (
	"errors"
	"fmt"

	"github.com/cpopa/taskdesk-api/internal/constants"
	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/repository"
)

var ErrSearchQueryTooShort = fmt.Errorf("search query must be at least %d characters", constants.MinSearchQueryLength)

var ErrLocationRequired = errors.New("latitude and longitude are required")

// UserService covers user lookup beyond authentication: directory search and
// location sharing.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Search finds users by partial name or email match.
func (s *UserService) Search(query string) ([]models.User, error) {
	if len(query) < constants.MinSearchQueryLength {
		return nil, ErrSearchQueryTooShort
	}
	return s.userRepo.Search(query, constants.MaxSearchResults)
}

// UpdateLocation stores the user's last shared position.
func (s *UserService) UpdateLocation(userID uint64, latitude, longitude *float64) (*models.User, error) {
	if latitude == nil || longitude == nil {
		return nil, ErrLocationRequired
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user.Latitude = latitude
	user.Longitude = longitude
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return user, nil
}
