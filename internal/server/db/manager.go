// Package db opens the credential database and hands out repositories.
// SQLite (file-backed) is the default; a postgres:// DSN selects PostgreSQL.
package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/agentaitrip/tripvault/internal/dbx"
	"github.com/agentaitrip/tripvault/internal/server/repositories/users"
)

// Manager owns the *sql.DB and constructs repositories bound to either the
// pooled connection or a transaction handle.
type Manager interface {
	Conn() *sql.DB
	Users(db dbx.DBTX) users.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}

// Open picks the backend from the DSN, opens the pool, verifies
// connectivity, and applies pending migrations. Any failure here is a
// store-unavailable condition and is returned to the caller.
func Open(ctx context.Context, dsn string) (Manager, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return newPostgresManager(ctx, dsn)
	}
	return newSQLiteManager(ctx, strings.TrimPrefix(dsn, "sqlite://"))
}
