package entities

import "time"

// Professional represents a healthcare professional registered by a user.
// The Address field is free text and participates only in travel-gap
// conflict detection.
type Professional struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Specialty string    `json:"specialty" db:"specialty"`
	Address   string    `json:"address" db:"address"`
	Contact   string    `json:"contact" db:"contact"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
