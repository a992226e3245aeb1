package domain

import "time"

// User is an account record. The email doubles as the username: token claims
// and lookups during refresh both go through it.
type User struct {
	ID           string
	Email        string
	PasswordHash string // argon2id, PHC encoded
	Name         string
	Surname      string

	// Refresh-token state. At most one refresh token is outstanding per
	// user; a new login or refresh overwrites these fields in place.
	RefreshTokenHash   *string    // SHA-256 fingerprint of the opaque token
	RefreshTokenExpiry *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
