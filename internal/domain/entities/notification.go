package entities

import "time"

// NotificationKind represents the notification purpose
type NotificationKind string

const (
	NotificationEventCreated   NotificationKind = "event_created"
	NotificationEventUpdated   NotificationKind = "event_updated"
	NotificationEventCancelled NotificationKind = "event_cancelled"
	NotificationReminder       NotificationKind = "reminder"
)

// Notification is an in-app notification row for a user
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"user_id" db:"user_id"`
	EventID   *string          `json:"event_id,omitempty" db:"event_id"`
	Kind      NotificationKind `json:"kind" db:"kind"`
	Message   string           `json:"message" db:"message"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
