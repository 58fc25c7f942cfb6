package entities

import (
	"time"
)

// EventType represents the kind of medical event
type EventType string

const (
	EventTypeConsulta EventType = "Consulta"
	EventTypeExame    EventType = "Exame"
)

// ValidEventType reports whether t is a known event type
func ValidEventType(t EventType) bool {
	return t == EventTypeConsulta || t == EventTypeExame
}

// Event represents a medical appointment (consultation or exam) on a user's
// agenda. Dates and times are naive wall-clock values: EventDate is a
// YYYY-MM-DD string and StartTime/EndTime are HH:MM strings; no timezone
// conversion is ever applied to them.
type Event struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	EventType    EventType  `json:"event_type" db:"event_type"`
	Professional string     `json:"professional" db:"professional"`
	EventDate    string     `json:"event_date" db:"event_date"`
	StartTime    string     `json:"start_time" db:"start_time"`
	EndTime      string     `json:"end_time" db:"end_time"`
	Notes        string     `json:"notes" db:"notes"`
	Instructions string     `json:"instructions" db:"instructions"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Active reports whether the event has not been soft-deleted
func (e *Event) Active() bool {
	return e.DeletedAt == nil
}
