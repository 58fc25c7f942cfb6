package repositories

import (
	"context"

	"github.com/saudehub/backend/internal/domain/entities"
)

// ShareRepository defines the interface for share-session persistence
type ShareRepository interface {
	// Create creates a session with its document set
	Create(ctx context.Context, session *entities.ShareSession) error

	// GetByCode retrieves a session by its code, including document ids;
	// expiry/revocation checks are the caller's concern
	GetByCode(ctx context.Context, code string) (*entities.ShareSession, error)

	// ListByUser retrieves the owner's sessions, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.ShareSession, error)

	// Revoke marks a session revoked within the owner scope
	Revoke(ctx context.Context, userID, id string) error

	// CodeInUse reports whether an active session currently holds the code
	CodeInUse(ctx context.Context, code string) (bool, error)
}
