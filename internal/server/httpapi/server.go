// Package httpapi exposes the credential service over a JSON HTTP API
// consumed by the trip-planner front end.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agentaitrip/tripvault/internal/logging"
	"github.com/agentaitrip/tripvault/internal/server/db"
	"github.com/agentaitrip/tripvault/internal/server/services"
	"github.com/agentaitrip/tripvault/internal/server/sessions"
)

type Server struct {
	address  string
	engine   *gin.Engine
	users    *services.UserService
	sessions *sessions.Store
	manager  db.Manager
	logger   logging.Logger
	secret   []byte
	tokenTTL time.Duration
}

func NewServer(address string, l logging.Logger, us *services.UserService, ss *sessions.Store, m db.Manager, secretKey string, tokenTTL time.Duration) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		address:  address,
		engine:   gin.New(),
		users:    us,
		sessions: ss,
		manager:  m,
		logger:   l.With("module", "http_server"),
		secret:   []byte(secretKey),
		tokenTTL: tokenTTL,
	}
	s.engine.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api/v1")
	api.POST("/auth/login", s.handleLogin)

	authed := api.Group("", s.requireSession())
	authed.POST("/auth/logout", s.handleLogout)
	authed.GET("/auth/session", s.handleSession)
	authed.POST("/tools/calc", s.handleCalc)
	authed.PUT("/users/:username/password", s.handleChangePassword)

	admin := authed.Group("", s.requireAdmin())
	admin.POST("/users", s.handleCreateUser)
	admin.GET("/users", s.handleListUsers)
}

// Handler returns the HTTP handler, used directly by tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
