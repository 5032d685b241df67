package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agentaitrip/tripvault/internal/common"
	"github.com/agentaitrip/tripvault/internal/dbx"
	"github.com/agentaitrip/tripvault/internal/server/models"
)

// PostgresRepository implements Repository over PostgreSQL (pgx stdlib
// driver) for deployments that already run a shared database server.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (username, password_hash, salt, role, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Salt, user.Role, formatTime(user.CreatedAt)).
		Scan(&user.ID)
	if err != nil {
		if isPostgresUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password_hash, salt, role, created_at FROM users
	          WHERE username = $1`

	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, username, passwordHash, salt string) error {
	query := `UPDATE users SET password_hash = $1, salt = $2 WHERE username = $3`

	res, err := r.db.ExecContext(ctx, query, passwordHash, salt, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT id, username, password_hash, salt, role, created_at FROM users
	          ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// 23505 is unique_violation.
func isPostgresUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
