package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agentaitrip/tripvault/internal/calc"
	"github.com/agentaitrip/tripvault/internal/common"
	"github.com/agentaitrip/tripvault/internal/server/auth"
	"github.com/agentaitrip/tripvault/internal/server/models"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleLogin authenticates a username/password pair and, on success,
// creates a session and returns a token bound to it.
//
// The service distinguishes "user not found" from "wrong password"; this
// boundary deliberately collapses both into one generic message so the API
// cannot be used to enumerate accounts.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	res, err := s.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrTooManyAttempts) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, try again later"})
			return
		}
		s.logger.Error(c.Request.Context(), "authentication failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !res.OK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	session := s.sessions.Create(req.Username, res.Role)
	token, err := auth.GenerateToken(session.ID, session.Role, s.secret, s.tokenTTL)
	if err != nil {
		s.sessions.Delete(session.ID)
		s.logger.Error(c.Request.Context(), "token generation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, Role: session.Role, ExpiresAt: session.ExpiresAt})
}

func (s *Server) handleLogout(c *gin.Context) {
	s.sessions.Delete(currentSession(c).ID)
	c.Status(http.StatusNoContent)
}

type sessionResponse struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleSession(c *gin.Context) {
	session := currentSession(c)
	c.JSON(http.StatusOK, sessionResponse{
		Username:  session.Username,
		Role:      session.Role,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// userResponse never carries the verifier or salt.
type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := s.users.CreateUser(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		s.logger.Error(c.Request.Context(), "user creation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleListUsers(c *gin.Context) {
	list, err := s.users.ListUsers(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "user listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

type changePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// handleChangePassword lets admins change any password and everyone else
// only their own.
func (s *Server) handleChangePassword(c *gin.Context) {
	target := c.Param("username")
	session := currentSession(c)

	if session.Role != models.RoleAdmin && session.Username != target {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot change another user's password"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	if err := s.users.ChangePassword(c.Request.Context(), target, req.Password); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such user"})
			return
		}
		s.logger.Error(c.Request.Context(), "password change failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}

type calcRequest struct {
	Expression string `json:"expression" binding:"required"`
}

// handleCalc evaluates an arithmetic expression for the front end's
// calculator tool. The grammar is closed; nothing here executes code.
func (s *Server) handleCalc(c *gin.Context) {
	var req calcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expression is required"})
		return
	}

	result, err := calc.Eval(req.Expression)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.manager.Conn().PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
