package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/uiforge/uiforge/internal/models"
)

// UserService manages the accounts behind verified identifiers.
type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db, now: time.Now}, nil
}

// LoginMetadata captures request details recorded on successful login.
type LoginMetadata struct {
	IPAddress string
}

// FindOrCreateByEmail returns the account for a verified email, creating it
// on first login, and stamps the login metadata.
func (s *UserService) FindOrCreateByEmail(ctx context.Context, email string, meta LoginMetadata) (*models.User, error) {
	email = normalizeIdentifier(email)
	if email == "" {
		return nil, errors.New("user service: email is required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user service: find user: %w", err)
	}

	if user == nil {
		user = &models.User{Email: email, IsActive: true}
		if createErr := s.db.WithContext(ctx).Create(user).Error; createErr != nil {
			if !isUniqueConstraintError(createErr) {
				return nil, fmt.Errorf("user service: create user: %w", createErr)
			}
			// Concurrent first login for the same email; fetch the winner's row.
			user, err = s.findByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("user service: refetch user: %w", err)
			}
		}
	}

	now := s.now()
	updates := map[string]any{
		"last_login_at": now,
		"last_login_ip": meta.IPAddress,
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("user service: record login: %w", err)
	}

	user.LastLoginAt = &now
	user.LastLoginIP = meta.IPAddress
	return user, nil
}

// GetByID fetches a user by primary key.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("user service: get user: %w", err)
	}
	return &user, nil
}

func (s *UserService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
