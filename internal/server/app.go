// Package server initializes and runs the credential service: it opens the
// store, seeds the bootstrap admin, and serves the HTTP API until shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentaitrip/tripvault/internal/logging"
	"github.com/agentaitrip/tripvault/internal/server/config"
	"github.com/agentaitrip/tripvault/internal/server/db"
	"github.com/agentaitrip/tripvault/internal/server/httpapi"
	"github.com/agentaitrip/tripvault/internal/server/ratelimit"
	"github.com/agentaitrip/tripvault/internal/server/services"
	"github.com/agentaitrip/tripvault/internal/server/sessions"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	manager  db.Manager
	users    *services.UserService
	sessions *sessions.Store
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	throttle := ratelimit.NewThrottle(cfg.LoginRateLimit, cfg.LoginRatePeriod)
	users := services.NewUserService(manager, throttle, logger, cfg.PBKDF2Iterations)

	if err := users.EnsureSeed(ctx); err != nil {
		manager.Close()
		return nil, fmt.Errorf("seed error: %w", err)
	}

	return &App{
		config:   cfg,
		logger:   logger,
		manager:  manager,
		users:    users,
		sessions: sessions.NewStore(cfg.SessionTTL),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	go app.sessions.RunJanitor(ctx, time.Minute)

	srv := httpapi.NewServer(
		app.config.EndpointAddrHTTP,
		app.logger,
		app.users,
		app.sessions,
		app.manager,
		app.config.SecretKey,
		app.config.AccessTokenValidityDuration,
	)

	err := srv.Run(ctx)

	if closeErr := app.manager.Close(); closeErr != nil {
		app.logger.Error(ctx, "closing store", "error", closeErr.Error())
	}

	return err
}
