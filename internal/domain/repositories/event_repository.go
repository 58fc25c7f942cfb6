package repositories

import (
	"context"

	"github.com/saudehub/backend/internal/domain/entities"
)

// EventRepository defines the interface for appointment data operations.
// Every method is scoped to an owner; update and delete affect zero rows
// (and report not-found) when the record does not exist or belongs to
// another owner.
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *entities.Event) error

	// GetByID retrieves an active event by id within the owner scope
	GetByID(ctx context.Context, userID, id string) (*entities.Event, error)

	// Update updates an event within the owner scope
	Update(ctx context.Context, event *entities.Event) error

	// SoftDelete marks the event deleted and orphans its documents in one
	// transaction
	SoftDelete(ctx context.Context, userID, id string) error

	// ListActive retrieves all non-deleted events for the owner,
	// optionally excluding one id
	ListActive(ctx context.Context, userID, excludeID string) ([]*entities.Event, error)

	// List retrieves the owner's active events with filters applied
	List(ctx context.Context, userID string, filter EventFilter) ([]*entities.Event, error)
}

// EventFilter defines filters for listing events
type EventFilter struct {
	EventType    entities.EventType
	Professional string
	FromDate     string
	ToDate       string
	Limit        int
	Offset       int
}
