package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/repositories"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

// ProfessionalService manages the per-user professional registry. The
// (name, specialty) pair is unique within one owner's registry.
type ProfessionalService struct {
	professionals repositories.ProfessionalRepository
}

// NewProfessionalService creates a new professional service
func NewProfessionalService(professionals repositories.ProfessionalRepository) *ProfessionalService {
	return &ProfessionalService{professionals: professionals}
}

// CreateProfessional validates and persists a new professional
func (s *ProfessionalService) CreateProfessional(ctx context.Context, userID string, professional *entities.Professional) (*entities.Professional, error) {
	if err := validateProfessionalInput(professional); err != nil {
		return nil, err
	}

	existing, err := s.professionals.GetByNameSpecialty(ctx, userID, professional.Name, professional.Specialty)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewValidationError("a professional with this name and specialty already exists")
	}

	professional.ID = uuid.New().String()
	professional.UserID = userID
	professional.CreatedAt = time.Now()
	professional.UpdatedAt = professional.CreatedAt

	if err := s.professionals.Create(ctx, professional); err != nil {
		return nil, err
	}

	return professional, nil
}

// GetProfessional retrieves one professional within the owner scope
func (s *ProfessionalService) GetProfessional(ctx context.Context, userID, id string) (*entities.Professional, error) {
	return s.professionals.GetByID(ctx, userID, id)
}

// UpdateProfessional validates and persists changes to a professional
func (s *ProfessionalService) UpdateProfessional(ctx context.Context, userID, id string, professional *entities.Professional) (*entities.Professional, error) {
	if err := validateProfessionalInput(professional); err != nil {
		return nil, err
	}

	current, err := s.professionals.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if professional.Name != current.Name || professional.Specialty != current.Specialty {
		existing, err := s.professionals.GetByNameSpecialty(ctx, userID, professional.Name, professional.Specialty)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperrors.NewValidationError("a professional with this name and specialty already exists")
		}
	}

	current.Name = professional.Name
	current.Specialty = professional.Specialty
	current.Address = professional.Address
	current.Contact = professional.Contact
	current.UpdatedAt = time.Now()

	if err := s.professionals.Update(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}

// DeleteProfessional removes a professional. Existing events keep their
// professional name; only the address resolution for travel-gap checks
// goes away.
func (s *ProfessionalService) DeleteProfessional(ctx context.Context, userID, id string) error {
	return s.professionals.Delete(ctx, userID, id)
}

// ListProfessionals retrieves all professionals for the owner
func (s *ProfessionalService) ListProfessionals(ctx context.Context, userID string) ([]*entities.Professional, error) {
	return s.professionals.ListByUser(ctx, userID)
}

func validateProfessionalInput(professional *entities.Professional) error {
	if professional == nil {
		return apperrors.NewValidationError("professional payload is required")
	}
	if professional.Name == "" {
		return apperrors.NewValidationError("name is required")
	}
	if professional.Specialty == "" {
		return apperrors.NewValidationError("specialty is required")
	}
	return nil
}
