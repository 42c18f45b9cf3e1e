package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/mentoro/internal/backend"
	"github.com/yungbote/mentoro/internal/platform/apierr"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/session"
)

var (
	ErrMissingToken = apierr.New(http.StatusBadRequest, "missing_token", errors.New("token required"))
	ErrTokenExpired = apierr.New(http.StatusUnauthorized, "token_expired", errors.New("token already expired"))
)

// Starter launches a background loop that needs the signed-in identity.
type Starter interface {
	Start(ctx context.Context) bool
}

type AccountService interface {
	// Login adopts token, loads the profile from the backend and signs the
	// store in. When the backend is unreachable an already signed-in profile
	// is kept; otherwise the demo profile is used.
	Login(ctx context.Context, token string) (progression.Profile, error)
	Logout(ctx context.Context)
	SyncProfile(ctx context.Context) (progression.Profile, error)
	UpdateProfile(ctx context.Context, u progression.ProfileUpdate) (progression.Profile, error)
	// Identity is the user id realtime connections are opened for; empty
	// while signed out.
	Identity() string
}

type accountService struct {
	log      *logger.Logger
	store    *progression.Store
	sessions *session.Manager
	backend  *backend.Client
	realtime Starter
	runCtx   context.Context
	now      func() time.Time
}

// NewAccountService wires sign-in. rt may be nil; runCtx bounds the
// realtime loop started after a login.
func NewAccountService(runCtx context.Context, log *logger.Logger, store *progression.Store, sessions *session.Manager, client *backend.Client, rt Starter) AccountService {
	if log == nil {
		log = logger.NewNop()
	}
	return &accountService{
		log:      log.With("service", "AccountService"),
		store:    store,
		sessions: sessions,
		backend:  client,
		realtime: rt,
		runCtx:   runCtx,
		now:      time.Now,
	}
}

func (s *accountService) Login(ctx context.Context, token string) (progression.Profile, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return progression.Profile{}, ErrMissingToken
	}
	s.sessions.Set(token)
	if !s.sessions.Authenticated() {
		return progression.Profile{}, ErrTokenExpired
	}
	r, err := s.backend.FetchProfile(ctx)
	if err != nil {
		return progression.Profile{}, err
	}
	if r.Fallback && s.store.State().Authenticated {
		s.log.Warn("Profile fetch fell back, keeping local profile", "user_id", s.store.Profile().ID)
	} else {
		prof := r.Value.ToProgression()
		if uid := s.sessions.UserID(); uid != "" && prof.ID == "" {
			prof.ID = uid
		}
		s.store.Login(prof)
	}
	s.store.UpdateStreak(s.now())
	s.log.Info("Signed in", "user_id", s.store.Profile().ID, "offline", r.Fallback)

	if s.realtime != nil && s.runCtx != nil {
		s.realtime.Start(s.runCtx)
	}
	return s.store.Profile(), nil
}

func (s *accountService) Logout(ctx context.Context) {
	s.sessions.Set("")
	s.store.Logout()
	s.log.Info("Signed out")
}

// SyncProfile refreshes the signed-in profile from the backend. A fallback
// response leaves the local profile untouched.
func (s *accountService) SyncProfile(ctx context.Context) (progression.Profile, error) {
	if !s.store.State().Authenticated {
		return s.store.Profile(), nil
	}
	r, err := s.backend.FetchProfile(ctx)
	if err != nil {
		return progression.Profile{}, err
	}
	if r.Fallback {
		return s.store.Profile(), nil
	}
	s.store.Login(r.Value.ToProgression())
	return s.store.Profile(), nil
}

// UpdateProfile changes the local profile first; name and avatar are then
// pushed to the backend.
func (s *accountService) UpdateProfile(ctx context.Context, u progression.ProfileUpdate) (progression.Profile, error) {
	s.store.UpdateProfile(u)
	prof := s.store.Profile()
	if (u.Username != nil || u.Avatar != nil) && s.sessions.Authenticated() {
		if _, err := s.backend.UpdateProfile(ctx, backend.ProfileInput{Username: prof.Username, Avatar: prof.Avatar}); err != nil {
			return progression.Profile{}, err
		}
	}
	return prof, nil
}

func (s *accountService) Identity() string {
	if !s.store.State().Authenticated {
		return ""
	}
	return s.store.Profile().ID
}
