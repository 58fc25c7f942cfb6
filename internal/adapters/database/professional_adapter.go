package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/repositories"
	"github.com/saudehub/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

// ProfessionalAdapter implements the ProfessionalRepository interface
type ProfessionalAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProfessionalAdapter creates a new professional adapter
func NewProfessionalAdapter(client *postgres.Client) repositories.ProfessionalRepository {
	return &ProfessionalAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var professionalColumns = []interface{}{
	"id", "user_id", "name", "specialty", "address", "contact",
	"created_at", "updated_at",
}

// Create creates a new professional
func (a *ProfessionalAdapter) Create(ctx context.Context, professional *entities.Professional) error {
	record := goqu.Record{
		"id":         professional.ID,
		"user_id":    professional.UserID,
		"name":       professional.Name,
		"specialty":  professional.Specialty,
		"address":    professional.Address,
		"contact":    professional.Contact,
		"created_at": professional.CreatedAt,
		"updated_at": professional.UpdatedAt,
	}

	query, args, err := a.db.Insert("professionals").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create professional", err)
	}

	return nil
}

// GetByID retrieves a professional by id within the owner scope
func (a *ProfessionalAdapter) GetByID(ctx context.Context, userID, id string) (*entities.Professional, error) {
	query, args, err := a.db.Select(professionalColumns...).
		From("professionals").
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	professional, err := a.scanProfessional(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("professional with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get professional", err)
	}

	return professional, nil
}

// GetByNameSpecialty retrieves a professional by its unique
// (name, specialty) pair. Returns nil without error when absent; the
// uniqueness check in the service treats absence as success.
func (a *ProfessionalAdapter) GetByNameSpecialty(ctx context.Context, userID, name, specialty string) (*entities.Professional, error) {
	query, args, err := a.db.Select(professionalColumns...).
		From("professionals").
		Where(goqu.Ex{"user_id": userID, "name": name, "specialty": specialty}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	professional, err := a.scanProfessional(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get professional", err)
	}

	return professional, nil
}

// AddressByName resolves the address of the owner's professional with the
// given name. Nil means unknown professional or no address on file; the
// travel-gap check treats both as a different location.
func (a *ProfessionalAdapter) AddressByName(ctx context.Context, userID, name string) (*string, error) {
	query, args, err := a.db.Select("address").
		From("professionals").
		Where(goqu.Ex{"user_id": userID, "name": name}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var address sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&address)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to resolve address", err)
	}

	if !address.Valid || address.String == "" {
		return nil, nil
	}
	return &address.String, nil
}

// Update updates a professional within the owner scope
func (a *ProfessionalAdapter) Update(ctx context.Context, professional *entities.Professional) error {
	record := goqu.Record{
		"name":       professional.Name,
		"specialty":  professional.Specialty,
		"address":    professional.Address,
		"contact":    professional.Contact,
		"updated_at": professional.UpdatedAt,
	}

	query, args, err := a.db.Update("professionals").
		Set(record).
		Where(goqu.Ex{"id": professional.ID, "user_id": professional.UserID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update professional", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("professional with id %s not found", professional.ID))
	}

	return nil
}

// Delete removes a professional within the owner scope
func (a *ProfessionalAdapter) Delete(ctx context.Context, userID, id string) error {
	query, args, err := a.db.Delete("professionals").
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete professional", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("professional with id %s not found", id))
	}

	return nil
}

// ListByUser retrieves all professionals for the owner
func (a *ProfessionalAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Professional, error) {
	query, args, err := a.db.Select(professionalColumns...).
		From("professionals").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list professionals", err)
	}
	defer rows.Close()

	var professionals []*entities.Professional
	for rows.Next() {
		professional, err := a.scanProfessional(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan professional", err)
		}
		professionals = append(professionals, professional)
	}

	return professionals, nil
}

func (a *ProfessionalAdapter) scanProfessional(row rowScanner) (*entities.Professional, error) {
	professional := &entities.Professional{}
	var address, contact sql.NullString

	err := row.Scan(
		&professional.ID,
		&professional.UserID,
		&professional.Name,
		&professional.Specialty,
		&address,
		&contact,
		&professional.CreatedAt,
		&professional.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	professional.Address = address.String
	professional.Contact = contact.String

	return professional, nil
}
