package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/cpopa/taskdesk-api/internal/config"
	"github.com/cpopa/taskdesk-api/internal/constants"
	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/repository"
	"github.com/cpopa/taskdesk-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", constants.MinPasswordLength)
	ErrInvalidRefresh     = errors.New("refresh token is invalid or expired")
	ErrInvalidUserRole    = errors.New("role must be ADMIN or MEMBER")
	ErrUserNotFound       = errors.New("user not found")
)

// TokenPair is an access token plus the refresh token that renews it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles registration, login and the refresh token rotation.
// Each user holds at most one persisted refresh token; issuing a new one
// replaces the old row.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	cfg       *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
	}
}

// RegisterInput represents input for creating an account. Role is optional
// and defaults to MEMBER.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a user and signs them in.
func (s *AuthService) Register(input RegisterInput) (*models.User, *TokenPair, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return nil, nil, ErrPasswordTooShort
	}

	role := models.UserRoleMember
	switch input.Role {
	case "", string(models.UserRoleMember):
	case string(models.UserRoleAdmin):
		role = models.UserRoleAdmin
	default:
		return nil, nil, ErrInvalidUserRole
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.issueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair.
func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid stored refresh token for a new token pair. An
// expired stored token is deleted before the request is rejected.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	userID, err := utils.VerifyToken(refreshToken, s.cfg.RefreshTokenSecret)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	stored, err := s.tokenRepo.Find(refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	if stored.UserID != userID {
		return nil, ErrInvalidRefresh
	}

	if time.Now().After(stored.ExpiresAt) {
		if err := s.tokenRepo.Delete(refreshToken); err != nil {
			return nil, fmt.Errorf("failed to delete expired token: %w", err)
		}
		return nil, ErrInvalidRefresh
	}

	return s.issueTokens(userID)
}

// Logout invalidates the user's stored refresh token.
func (s *AuthService) Logout(userID uint64, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokenRepo.DeleteForUser(userID, refreshToken); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// GetUser returns the user's profile.
func (s *AuthService) GetUser(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueTokens(userID uint64) (*TokenPair, error) {
	access, err := utils.GenerateToken(userID, s.cfg.AccessTokenSecret, constants.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := utils.GenerateToken(userID, s.cfg.RefreshTokenSecret, constants.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(constants.RefreshTokenTTL)
	if err := s.tokenRepo.Replace(userID, refresh, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
