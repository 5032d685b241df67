package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/agentaitrip/tripvault/internal/dbx"
	"github.com/agentaitrip/tripvault/internal/server/migrations"
	"github.com/agentaitrip/tripvault/internal/server/repositories/users"
)

type SQLiteManager struct {
	db *sql.DB
}

func newSQLiteManager(ctx context.Context, path string) (*SQLiteManager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// under concurrent logins.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := &SQLiteManager{db: db}
	if err := m.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}

func (m *SQLiteManager) Conn() *sql.DB { return m.db }

func (m *SQLiteManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, "sqlite")
}

func (m *SQLiteManager) Close() error { return m.db.Close() }
