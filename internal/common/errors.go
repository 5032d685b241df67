// Package common defines shared constants and sentinel errors used across
// TripVault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// A malformed record means the persisted salt or hash is not valid hex
	// of the expected length; it indicates corruption, not a wrong password,
	// and is logged separately by callers.
	ErrMalformedRecord = errors.New("malformed stored record")

	// Auth errors (invalid or malformed token / missing session).
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionExpired = errors.New("session expired")

	// Throttling.
	ErrTooManyAttempts = errors.New("too many attempts")
)
