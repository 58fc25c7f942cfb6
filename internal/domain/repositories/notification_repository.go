package repositories

import (
	"context"

	"github.com/saudehub/backend/internal/domain/entities"
)

// NotificationRepository defines the interface for in-app notification rows
type NotificationRepository interface {
	// Create creates a notification row
	Create(ctx context.Context, notification *entities.Notification) error

	// ListByUser retrieves the owner's notifications, newest first
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entities.Notification, error)

	// MarkRead marks a notification as read within the owner scope
	MarkRead(ctx context.Context, userID, id string) error
}
