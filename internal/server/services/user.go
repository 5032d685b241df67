// Package services contains server-side business logic. This file implements
// UserService: first-run bootstrap, authentication, and user management over
// the credential store.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agentaitrip/tripvault/internal/common"
	"github.com/agentaitrip/tripvault/internal/cryptox"
	"github.com/agentaitrip/tripvault/internal/dbx"
	"github.com/agentaitrip/tripvault/internal/logging"
	"github.com/agentaitrip/tripvault/internal/server/db"
	"github.com/agentaitrip/tripvault/internal/server/models"
	"github.com/agentaitrip/tripvault/internal/server/ratelimit"
)

// Bootstrap credentials seeded on an empty store so the system is usable
// before any administrator exists. This is the only place a plaintext
// password appears in source form; deployments must rotate it immediately.
const (
	BootstrapUsername = "admin"
	BootstrapPassword = "admin123"
)

// Authentication result messages.
const (
	MsgAuthenticated = "authenticated"
	MsgUserNotFound  = "user not found"
	MsgWrongPassword = "wrong password"
)

// AuthResult is the structured outcome of an authentication attempt.
// Negative outcomes (unknown user, wrong password, corrupt record) are
// results, not errors; only infrastructure faults surface as errors.
type AuthResult struct {
	OK      bool
	Message string
	Role    string
}

// UserService provides credential-store operations:
//   - EnsureSeed: first-run admin bootstrap
//   - Authenticate: verify a username/password pair
//   - CreateUser / ChangePassword / ListUsers: account management
type UserService struct {
	manager    db.Manager
	throttle   *ratelimit.Throttle
	logger     logging.Logger
	iterations int
}

// NewUserService constructs a UserService. throttle may be nil to disable
// login throttling (the CLI does this). iterations is the PBKDF2 cost;
// values below 1 select the default. Changing the cost on an existing store
// invalidates stored verifiers, so treat it as fixed per deployment.
func NewUserService(m db.Manager, throttle *ratelimit.Throttle, logger logging.Logger, iterations int) *UserService {
	return &UserService{
		manager:    m,
		throttle:   throttle,
		logger:     logger.With("module", "users"),
		iterations: iterations,
	}
}

// EnsureSeed creates the default admin account if no user named "admin"
// exists. The check and the insert run in one transaction, and it stays safe
// against concurrent first runs: a unique-constraint violation on the insert
// means another process already seeded the store and is not an error.
func (s *UserService) EnsureSeed(ctx context.Context) error {
	var seeded bool

	err := dbx.WithTx(ctx, s.manager.Conn(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.manager.Users(tx)

		_, err := repo.GetByUsername(ctx, BootstrapUsername)
		if err == nil {
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("seed check: %w", err)
		}

		hash, salt := cryptox.HashPassword(BootstrapPassword, nil, s.iterations)
		if _, err := repo.Create(ctx, &models.User{
			Username:     BootstrapUsername,
			PasswordHash: hash,
			Salt:         salt,
			Role:         models.RoleAdmin,
			CreatedAt:    time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("seed insert: %w", err)
		}

		seeded = true
		return nil
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		// lost the race to another instance; the store is seeded
		return nil
	}
	if err != nil {
		return err
	}

	if seeded {
		s.logger.Info(ctx, "seeded default admin account; rotate its password", "username", BootstrapUsername)
	}
	return nil
}

// Authenticate verifies the password for the named user. It is read-only
// against the store. Unknown users and wrong passwords come back as
// negative AuthResults; a corrupt stored record is logged and reported as a
// wrong password; store faults and throttling are returned as errors
// (common.ErrTooManyAttempts for the latter).
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("throttle: %w", err)
		}
		if !ok {
			s.logger.Warn(ctx, "login throttled", "username", username)
			return nil, common.ErrTooManyAttempts
		}
	}

	repo := s.manager.Users(s.manager.Conn())
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &AuthResult{Message: MsgUserNotFound}, nil
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	ok, err := cryptox.VerifyPassword(user.PasswordHash, user.Salt, password, s.iterations)
	if err != nil {
		// corruption, not a bad credential; fails the login but is logged apart
		s.logger.Error(ctx, "stored credential record is malformed", "username", username, "error", err.Error())
		return &AuthResult{Message: MsgWrongPassword}, nil
	}
	if !ok {
		s.logger.Info(ctx, "failed login", "username", username)
		return &AuthResult{Message: MsgWrongPassword}, nil
	}

	return &AuthResult{OK: true, Message: MsgAuthenticated, Role: user.Role}, nil
}

// CreateUser derives a fresh salt and verifier for password and inserts the
// record. An empty role defaults to "user". Duplicate usernames yield
// common.ErrorAlreadyExists.
func (s *UserService) CreateUser(ctx context.Context, username, password, role string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", common.ErrorInternal)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", common.ErrorInternal)
	}
	if role == "" {
		role = models.RoleUser
	}

	hash, salt := cryptox.HashPassword(password, nil, s.iterations)
	repo := s.manager.Users(s.manager.Conn())
	user, err := repo.Create(ctx, &models.User{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user created", "username", username, "role", role)
	return user, nil
}

// ChangePassword replaces the user's verifier and salt together. The single
// UPDATE keeps the pair atomic.
func (s *UserService) ChangePassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: empty password", common.ErrorInternal)
	}

	hash, salt := cryptox.HashPassword(newPassword, nil, s.iterations)
	repo := s.manager.Users(s.manager.Conn())
	if err := repo.UpdatePassword(ctx, username, hash, salt); err != nil {
		return err
	}

	s.logger.Info(ctx, "password changed", "username", username)
	return nil
}

// ListUsers returns all credential records ordered by ID.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	repo := s.manager.Users(s.manager.Conn())
	return repo.List(ctx)
}
