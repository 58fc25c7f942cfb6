package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// AgendaEventType represents the kind of agenda lifecycle event published on
// the bus
type AgendaEventType string

const (
	AgendaEventTypeCreated   AgendaEventType = "event_created"
	AgendaEventTypeUpdated   AgendaEventType = "event_updated"
	AgendaEventTypeCancelled AgendaEventType = "event_cancelled"
)

// AgendaEvent is the message published when an appointment is created,
// updated or cancelled. The notifier worker consumes these to write in-app
// notification rows.
type AgendaEvent struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	EventID      string          `json:"event_id"`
	EventType    AgendaEventType `json:"event_type"`
	Professional string          `json:"professional"`
	EventDate    string          `json:"event_date"`
	StartTime    string          `json:"start_time"`
	Timestamp    time.Time       `json:"timestamp"`
}

// NewAgendaEvent creates a new agenda lifecycle event
func NewAgendaEvent(userID, eventID string, eventType AgendaEventType, professional, eventDate, startTime string) *AgendaEvent {
	return &AgendaEvent{
		ID:           generateEventID(),
		UserID:       userID,
		EventID:      eventID,
		EventType:    eventType,
		Professional: professional,
		EventDate:    eventDate,
		StartTime:    startTime,
		Timestamp:    time.Now(),
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random string of specified length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
