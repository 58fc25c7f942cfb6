package repositories

import (
	"context"

	"github.com/saudehub/backend/internal/domain/entities"
)

// DocumentRepository defines the interface for document metadata operations
type DocumentRepository interface {
	// Create creates a new document record
	Create(ctx context.Context, document *entities.Document) error

	// GetByID retrieves a document by id within the owner scope
	GetByID(ctx context.Context, userID, id string) (*entities.Document, error)

	// GetByIDs retrieves documents by id regardless of owner; used by
	// share-code redemption
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Document, error)

	// ListByUser retrieves the owner's documents, optionally filtered to
	// one event
	ListByUser(ctx context.Context, userID string, filter DocumentFilter) ([]*entities.Document, error)

	// Delete removes a document record within the owner scope
	Delete(ctx context.Context, userID, id string) error
}

// DocumentFilter defines filters for listing documents
type DocumentFilter struct {
	EventID        string
	IncludeOrphans bool
	Limit          int
	Offset         int
}
