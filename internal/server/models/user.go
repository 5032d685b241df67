// Package models holds the server-side persistence models.
package models

import "time"

// User is one credential record. PasswordHash is the hex-encoded PBKDF2
// derived key and Salt the hex-encoded per-user random salt; the plaintext
// password is never stored. Username and CreatedAt are immutable after
// creation; a password change replaces PasswordHash and Salt together.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Salt         string
	Role         string
	CreatedAt    time.Time
}

// Role names used by the application. The set is open; these are the two
// the bootstrap and the UI know about.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
