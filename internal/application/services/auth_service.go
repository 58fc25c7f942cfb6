package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/repositories"
	"github.com/saudehub/backend/pkg/auth"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

// AuthService manages account registration and token issuance
type AuthService struct {
	users    repositories.UserRepository
	secret   string
	tokenTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register creates a new account with a hashed password
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email are required")
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewValidationError("email is already registered")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	user := &entities.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a signed token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	token, err := auth.MakeToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, apperrors.NewInternalError("failed to issue token", err)
	}

	return token, user, nil
}

// GetUser retrieves the account for an authenticated id
func (s *AuthService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return s.users.GetByID(ctx, id)
}
