package entities

import "time"

// Document represents a file attached to an event. When the owning event is
// soft-deleted the document is kept but marked orphaned (OrphanedAt set,
// EventID cleared) in the same transaction.
type Document struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	EventID     *string    `json:"event_id,omitempty" db:"event_id"`
	FileName    string     `json:"file_name" db:"file_name"`
	ContentType string     `json:"content_type" db:"content_type"`
	SizeBytes   int64      `json:"size_bytes" db:"size_bytes"`
	StoragePath string     `json:"-" db:"storage_path"`
	OrphanedAt  *time.Time `json:"orphaned_at,omitempty" db:"orphaned_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
