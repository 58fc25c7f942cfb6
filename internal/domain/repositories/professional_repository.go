package repositories

import (
	"context"

	"github.com/saudehub/backend/internal/domain/entities"
)

// ProfessionalRepository defines the interface for professional data
// operations, all scoped per owner.
type ProfessionalRepository interface {
	// Create creates a new professional
	Create(ctx context.Context, professional *entities.Professional) error

	// GetByID retrieves a professional by id within the owner scope
	GetByID(ctx context.Context, userID, id string) (*entities.Professional, error)

	// GetByNameSpecialty retrieves a professional by its unique
	// (name, specialty) pair; nil when absent
	GetByNameSpecialty(ctx context.Context, userID, name, specialty string) (*entities.Professional, error)

	// AddressByName resolves the address of the owner's professional with
	// the given name; nil when the professional is unknown or has no
	// address on file
	AddressByName(ctx context.Context, userID, name string) (*string, error)

	// Update updates a professional within the owner scope
	Update(ctx context.Context, professional *entities.Professional) error

	// Delete removes a professional within the owner scope
	Delete(ctx context.Context, userID, id string) error

	// ListByUser retrieves all professionals for the owner
	ListByUser(ctx context.Context, userID string) ([]*entities.Professional, error)
}
