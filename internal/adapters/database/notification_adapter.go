package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/repositories"
	"github.com/saudehub/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

// NotificationAdapter implements the NotificationRepository interface
type NotificationAdapter struct {
	db *sqlx.DB
}

// NewNotificationAdapter creates a new notification adapter
func NewNotificationAdapter(client *postgres.Client) repositories.NotificationRepository {
	return &NotificationAdapter{
		db: sqlx.NewDb(client.DB(), "postgres"),
	}
}

// Create creates a notification row
func (a *NotificationAdapter) Create(ctx context.Context, notification *entities.Notification) error {
	query := `
		INSERT INTO notifications
		(id, user_id, event_id, kind, message, read_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := a.db.ExecContext(ctx, query,
		notification.ID, notification.UserID, notification.EventID,
		notification.Kind, notification.Message, notification.ReadAt,
		notification.CreatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to create notification", err)
	}
	return nil
}

// ListByUser retrieves the owner's notifications, newest first
func (a *NotificationAdapter) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entities.Notification, error) {
	query := `SELECT * FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	var notifications []*entities.Notification
	if err := a.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, apperrors.NewInternalError("failed to list notifications", err)
	}
	return notifications, nil
}

// MarkRead marks a notification as read within the owner scope
func (a *NotificationAdapter) MarkRead(ctx context.Context, userID, id string) error {
	query := `UPDATE notifications SET read_at = $1 WHERE id = $2 AND user_id = $3 AND read_at IS NULL`
	result, err := a.db.ExecContext(ctx, query, time.Now(), id, userID)
	if err != nil {
		return apperrors.NewInternalError("failed to mark notification read", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("notification with id %s not found", id))
	}

	return nil
}
