package entities

import "time"

// ShareSession grants time-limited read access to a set of documents via a
// short numeric code. A session is redeemable until it expires or is
// revoked.
type ShareSession struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Code        string     `json:"code" db:"code"`
	DocumentIDs []string   `json:"document_ids" db:"-"`
	ExpiresAt   time.Time  `json:"expires_at" db:"expires_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Redeemable reports whether the session can still be redeemed at now
func (s *ShareSession) Redeemable(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
