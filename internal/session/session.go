package session

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/mentoro/internal/platform/logger"
)

// Manager holds the bearer token issued by the external identity provider.
// The token is never verified here; the backend does that. When the token is
// a JWT its exp and sub claims are read so an expired token is not sent.
type Manager struct {
	mu        sync.RWMutex
	token     string
	userID    string
	expiresAt time.Time
	listeners []func(reason string)

	now func() time.Time
	log *logger.Logger
}

func NewManager(log *logger.Logger, token, userID string) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	m := &Manager{
		now: time.Now,
		log: log.With("component", "SessionManager"),
	}
	m.userID = strings.TrimSpace(userID)
	m.Set(token)
	return m
}

// Set replaces the current token. Claims are read when present; opaque
// tokens are accepted as-is.
func (m *Manager) Set(token string) {
	token = strings.TrimSpace(token)
	var (
		sub string
		exp time.Time
	)
	if token != "" {
		claims := jwt.RegisteredClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil {
			sub = claims.Subject
			if claims.ExpiresAt != nil {
				exp = claims.ExpiresAt.Time
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.expiresAt = exp
	if sub != "" {
		m.userID = sub
	}
}

// Token returns the bearer token, or "" when none is held or it has expired.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return ""
	}
	if !m.expiresAt.IsZero() && !m.now().Before(m.expiresAt) {
		return ""
	}
	return m.token
}

func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID
}

func (m *Manager) ExpiresAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiresAt
}

func (m *Manager) Authenticated() bool { return m.Token() != "" }

// OnExpired registers fn to run when the session is invalidated.
func (m *Manager) OnExpired(fn func(reason string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Invalidate drops the token. Listeners fire only when a token was held.
func (m *Manager) Invalidate(reason string) {
	m.mu.Lock()
	had := m.token != ""
	m.token = ""
	m.expiresAt = time.Time{}
	listeners := append([]func(string){}, m.listeners...)
	m.mu.Unlock()

	if !had {
		return
	}
	m.log.Warn("session invalidated", "reason", reason, "user_id", m.UserID())
	for _, fn := range listeners {
		fn(reason)
	}
}
