package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/repositories"
	"github.com/saudehub/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

// ShareAdapter implements the ShareRepository interface. The document set
// of a session lives in the share_session_documents join table.
type ShareAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewShareAdapter creates a new share adapter
func NewShareAdapter(client *postgres.Client) repositories.ShareRepository {
	return &ShareAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var shareColumns = []interface{}{
	"id", "user_id", "code", "expires_at", "revoked_at", "created_at",
}

// Create creates a session with its document set in one transaction
func (a *ShareAdapter) Create(ctx context.Context, session *entities.ShareSession) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	record := goqu.Record{
		"id":         session.ID,
		"user_id":    session.UserID,
		"code":       session.Code,
		"expires_at": session.ExpiresAt,
		"revoked_at": session.RevokedAt,
		"created_at": session.CreatedAt,
	}

	query, args, err := a.db.Insert("share_sessions").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create share session", err)
	}

	for _, documentID := range session.DocumentIDs {
		query, args, err := a.db.Insert("share_session_documents").
			Rows(goqu.Record{"session_id": session.ID, "document_id": documentID}).
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build insert query", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to attach document to share session", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit share session", err)
	}

	return nil
}

// GetByCode retrieves a session by its code, including document ids.
// Expiry and revocation checks are the caller's concern.
func (a *ShareAdapter) GetByCode(ctx context.Context, code string) (*entities.ShareSession, error) {
	query, args, err := a.db.Select(shareColumns...).
		From("share_sessions").
		Where(goqu.Ex{"code": code}).
		Order(goqu.I("created_at").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	session, err := a.scanSession(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("share code not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get share session", err)
	}

	if err := a.loadDocumentIDs(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// ListByUser retrieves the owner's sessions, newest first
func (a *ShareAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.ShareSession, error) {
	query, args, err := a.db.Select(shareColumns...).
		From("share_sessions").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list share sessions", err)
	}
	defer rows.Close()

	var sessions []*entities.ShareSession
	for rows.Next() {
		session, err := a.scanSession(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan share session", err)
		}
		sessions = append(sessions, session)
	}

	for _, session := range sessions {
		if err := a.loadDocumentIDs(ctx, session); err != nil {
			return nil, err
		}
	}

	return sessions, nil
}

// Revoke marks a session revoked within the owner scope
func (a *ShareAdapter) Revoke(ctx context.Context, userID, id string) error {
	query, args, err := a.db.Update("share_sessions").
		Set(goqu.Record{"revoked_at": time.Now()}).
		Where(goqu.Ex{"id": id, "user_id": userID}).
		Where(goqu.C("revoked_at").IsNull()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build revoke query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to revoke share session", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("share session with id %s not found", id))
	}

	return nil
}

// CodeInUse reports whether an active session currently holds the code.
// Expired and revoked sessions release their codes for reuse.
func (a *ShareAdapter) CodeInUse(ctx context.Context, code string) (bool, error) {
	query, args, err := a.db.Select(goqu.COUNT("id")).
		From("share_sessions").
		Where(goqu.Ex{"code": code}).
		Where(goqu.C("revoked_at").IsNull()).
		Where(goqu.C("expires_at").Gt(time.Now())).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check share code", err)
	}

	return count > 0, nil
}

func (a *ShareAdapter) loadDocumentIDs(ctx context.Context, session *entities.ShareSession) error {
	query, args, err := a.db.Select("document_id").
		From("share_session_documents").
		Where(goqu.Ex{"session_id": session.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load share session documents", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return apperrors.NewInternalError("failed to scan document id", err)
		}
		ids = append(ids, id)
	}

	session.DocumentIDs = ids
	return nil
}

func (a *ShareAdapter) scanSession(row rowScanner) (*entities.ShareSession, error) {
	session := &entities.ShareSession{}
	var revokedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Code,
		&session.ExpiresAt,
		&revokedAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if revokedAt.Valid {
		session.RevokedAt = &revokedAt.Time
	}

	return session, nil
}
