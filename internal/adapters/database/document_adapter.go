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

// DocumentAdapter implements the DocumentRepository interface
type DocumentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDocumentAdapter creates a new document adapter
func NewDocumentAdapter(client *postgres.Client) repositories.DocumentRepository {
	return &DocumentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var documentColumns = []interface{}{
	"id", "user_id", "event_id", "file_name", "content_type", "size_bytes",
	"storage_path", "orphaned_at", "created_at", "updated_at",
}

// Create creates a new document record
func (a *DocumentAdapter) Create(ctx context.Context, document *entities.Document) error {
	record := goqu.Record{
		"id":           document.ID,
		"user_id":      document.UserID,
		"event_id":     document.EventID,
		"file_name":    document.FileName,
		"content_type": document.ContentType,
		"size_bytes":   document.SizeBytes,
		"storage_path": document.StoragePath,
		"orphaned_at":  document.OrphanedAt,
		"created_at":   document.CreatedAt,
		"updated_at":   document.UpdatedAt,
	}

	query, args, err := a.db.Insert("documents").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create document", err)
	}

	return nil
}

// GetByID retrieves a document by id within the owner scope
func (a *DocumentAdapter) GetByID(ctx context.Context, userID, id string) (*entities.Document, error) {
	query, args, err := a.db.Select(documentColumns...).
		From("documents").
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	document, err := a.scanDocument(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get document", err)
	}

	return document, nil
}

// GetByIDs retrieves documents by id regardless of owner. Share-code
// redemption resolves document sets through here after the session itself
// has been validated.
func (a *DocumentAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := a.db.Select(documentColumns...).
		From("documents").
		Where(goqu.C("id").In(ids)).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryDocuments(ctx, query, args)
}

// ListByUser retrieves the owner's documents, optionally filtered to one
// event. Orphaned documents are excluded unless explicitly requested.
func (a *DocumentAdapter) ListByUser(ctx context.Context, userID string, filter repositories.DocumentFilter) ([]*entities.Document, error) {
	ds := a.db.Select(documentColumns...).
		From("documents").
		Where(goqu.Ex{"user_id": userID})

	if filter.EventID != "" {
		ds = ds.Where(goqu.Ex{"event_id": filter.EventID})
	}

	if !filter.IncludeOrphans {
		ds = ds.Where(goqu.C("orphaned_at").IsNull())
	}

	ds = ds.Order(goqu.I("created_at").Desc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryDocuments(ctx, query, args)
}

// Delete removes a document record within the owner scope
func (a *DocumentAdapter) Delete(ctx context.Context, userID, id string) error {
	query, args, err := a.db.Delete("documents").
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete document", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("document with id %s not found", id))
	}

	return nil
}

func (a *DocumentAdapter) queryDocuments(ctx context.Context, query string, args []interface{}) ([]*entities.Document, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list documents", err)
	}
	defer rows.Close()

	var documents []*entities.Document
	for rows.Next() {
		document, err := a.scanDocument(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan document", err)
		}
		documents = append(documents, document)
	}

	return documents, nil
}

func (a *DocumentAdapter) scanDocument(row rowScanner) (*entities.Document, error) {
	document := &entities.Document{}
	var eventID sql.NullString
	var orphanedAt sql.NullTime

	err := row.Scan(
		&document.ID,
		&document.UserID,
		&eventID,
		&document.FileName,
		&document.ContentType,
		&document.SizeBytes,
		&document.StoragePath,
		&orphanedAt,
		&document.CreatedAt,
		&document.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if eventID.Valid {
		document.EventID = &eventID.String
	}
	if orphanedAt.Valid {
		document.OrphanedAt = &orphanedAt.Time
	}

	return document, nil
}
