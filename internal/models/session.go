package models

import "time"

// User is the account record returned by the auth API.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SessionRecord is the persisted authentication state: an opaque bearer
// token, the owning user and an absolute expiry. The record is valid iff the
// current time is strictly before ExpiresAt.
type SessionRecord struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the record is still usable at the given time.
func (r SessionRecord) Valid(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}
