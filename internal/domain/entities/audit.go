package entities

import (
	"encoding/json"
	"time"
)

// TravelOverrideAudit records an explicit override of a travel-gap
// conflict. Writes are best-effort: a failed audit insert never aborts the
// mutation that triggered it.
type TravelOverrideAudit struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	EventID   *string         `json:"event_id,omitempty" db:"event_id"`
	Conflicts json.RawMessage `json:"conflicts" db:"conflicts"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
