// Package users contains the credential-record repository: an interface plus
// SQLite and Postgres implementations over dbx.DBTX.
package users

import (
	"context"

	"github.com/agentaitrip/tripvault/internal/server/models"
)

type Repository interface {
	// Create inserts a new record and returns it with the assigned ID.
	// A duplicate username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername looks a record up by exact, case-sensitive username.
	// Absence yields common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdatePassword replaces password_hash and salt together in a single
	// statement so the pair is never observed half-updated.
	UpdatePassword(ctx context.Context, username, passwordHash, salt string) error

	// List returns all records ordered by ID.
	List(ctx context.Context) ([]*models.User, error)
}
