package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/session"
)

type SessionMiddleware struct {
	log      *logger.Logger
	sessions *session.Manager
}

func NewSessionMiddleware(log *logger.Logger, sessions *session.Manager) *SessionMiddleware {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionMiddleware{log: log.With("Middleware", "SessionMiddleware"), sessions: sessions}
}

// AdoptToken replaces the held session token when a request carries a
// different bearer token. Requests without one leave the session alone.
func (sm *SessionMiddleware) AdoptToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := extractToken(c); tok != "" && tok != sm.sessions.Token() {
			sm.log.Debug("Adopting bearer token from request", "token", tok)
			sm.sessions.Set(tok)
		}
		c.Next()
	}
}

// RequireSession rejects requests while no unexpired token is held.
func (sm *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sm.sessions.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or expired session", "code": "unauthorized"},
			})
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
