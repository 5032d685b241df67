package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agentaitrip/tripvault/internal/common"
	"github.com/agentaitrip/tripvault/internal/server/auth"
	"github.com/agentaitrip/tripvault/internal/server/models"
	"github.com/agentaitrip/tripvault/internal/server/sessions"
)

const sessionKey = "session"

// requireSession validates the bearer token and resolves the session behind
// it. The session is stored on the request context, so handlers always work
// with an explicit session object. A deleted or expired session rejects the
// token no matter how long the token itself remains formally valid.
//
// All rejection modes (missing header, bad token, dead session) share one
// response body; the distinction stays in the server logs, same as the
// login handler's treatment of unknown users vs wrong passwords.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := auth.ParseToken(token, s.secret)
		if err != nil {
			s.logger.Debug(c.Request.Context(), "rejected token", "error", err.Error())
			abortUnauthorized(c)
			return
		}

		session, err := s.sessions.Get(claims.SessionID)
		if err != nil {
			s.logger.Debug(c.Request.Context(), "rejected session", "error", err.Error())
			abortUnauthorized(c)
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthorized.Error()})
}

// requireAdmin allows only sessions holding the admin role.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentSession(c).Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// currentSession returns the session placed by requireSession. Calling it
// outside an authenticated route is a programming error.
func currentSession(c *gin.Context) sessions.Session {
	return c.MustGet(sessionKey).(sessions.Session)
}
