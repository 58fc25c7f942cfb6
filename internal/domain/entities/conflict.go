package entities

// ConflictKind distinguishes the two scheduling conflict classes. Overlaps
// are hard conflicts and never overridable; travel-gap conflicts are
// advisory and may be explicitly overridden by the caller.
type ConflictKind string

const (
	ConflictKindOverlap   ConflictKind = "overlap"
	ConflictKindTravelGap ConflictKind = "travel_gap"
)

// ConflictPayload is the structured body attached to conflict errors and
// serialized on HTTP 409 responses.
type ConflictPayload struct {
	ConflictType ConflictKind `json:"conflictType"`
	Conflicts    []Conflict   `json:"conflicts"`
	Message      string       `json:"message,omitempty"`
}

// Conflict describes one existing event that conflicts with a candidate
// window. Address is populated only for travel-gap conflicts.
type Conflict struct {
	EventID      string       `json:"event_id"`
	Kind         ConflictKind `json:"kind"`
	EventType    EventType    `json:"event_type"`
	Professional string       `json:"professional"`
	EventDate    string       `json:"event_date"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	Address      string       `json:"address,omitempty"`
}
