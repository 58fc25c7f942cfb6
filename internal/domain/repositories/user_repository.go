package repositories

import (
	"context"

	"github.com/saudehub/backend/internal/domain/entities"
)

// UserRepository defines the interface for account persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByEmail retrieves a user by email; not-found error when absent
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (*entities.User, error)
}
