package users

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentaitrip/tripvault/internal/common"
	"github.com/agentaitrip/tripvault/internal/server/models"
)

func TestSQLiteCreate_UsesLastInsertID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSQLiteRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("bob", "ff00", "aa11", "user", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))

	u, err := repo.Create(context.Background(), &models.User{
		Username:     "bob",
		PasswordHash: "ff00",
		Salt:         "aa11",
		Role:         "user",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteCreate_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSQLiteRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"))

	_, err = repo.Create(context.Background(), &models.User{Username: "bob", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestSQLiteGetByUsername_CreatedAtRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSQLiteRepository(db)

	created := time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "salt", "role", "created_at"}).
		AddRow(int64(1), "bob", "ff00", "aa11", "user", formatTime(created))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("bob").
		WillReturnRows(rows)

	u, err := repo.GetByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, u.CreatedAt.Equal(created))
}

func TestFormatTime_UTCAndParsable(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	local := time.Date(2025, 1, 2, 10, 0, 0, 0, loc)

	s := formatTime(local)

	parsed, err := time.Parse(time.RFC3339Nano, s)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(local))
	assert.Equal(t, time.UTC, parsed.Location())
}
