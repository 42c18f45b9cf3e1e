package app

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yungbote/mentoro/internal/ai"
	"github.com/yungbote/mentoro/internal/backend"
	"github.com/yungbote/mentoro/internal/config"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/realtime"
	"github.com/yungbote/mentoro/internal/session"
)

type Clients struct {
	Backend *backend.Client
	AI      *ai.Generator
	// Realtime is nil when the live channel is disabled.
	Realtime *realtime.Channel
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config, store *progression.Store, sessions *session.Manager) (Clients, error) {
	log.Info("Wiring clients...")
	hc := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	backendClient, err := backend.New(backend.Options{
		BaseURL:    cfg.Backend.BaseURL,
		Timeout:    cfg.Backend.Timeout.Duration,
		MaxRetries: cfg.Backend.MaxRetries,
		HTTPClient: hc,
		Session:    sessions,
		Logger:     log,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init backend client: %w", err)
	}

	provider, err := ai.NewProvider(ctx, cfg.AI, hc)
	if err != nil {
		return Clients{}, fmt.Errorf("init ai provider: %w", err)
	}
	gen, err := ai.NewGenerator(ai.GeneratorOptions{
		Provider:  provider,
		Logger:    log,
		Timeout:   cfg.AI.Timeout.Duration,
		CacheSize: cfg.AI.CacheSize,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init ai generator: %w", err)
	}
	if provider == nil {
		log.Info("AI provider disabled, serving canned content")
	}

	out := Clients{Backend: backendClient, AI: gen}
	if !cfg.Realtime.Enabled {
		return out, nil
	}
	rt, err := realtime.New(realtime.Options{
		URL:          cfg.Realtime.URL,
		Identity:     signedInUser(store, sessions),
		Token:        sessions.Token,
		MaxAttempts:  cfg.Realtime.MaxAttempts,
		BackoffUnit:  cfg.Realtime.BackoffUnit.Duration,
		EventLogSize: cfg.Realtime.EventLogSize,
		Logger:       log,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init realtime channel: %w", err)
	}
	out.Realtime = rt
	return out, nil
}

// signedInUser names the room identity: the profile id while a session is
// held, else "".
func signedInUser(store *progression.Store, sessions *session.Manager) func() string {
	return func() string {
		if !sessions.Authenticated() {
			return ""
		}
		st := store.State()
		if !st.Authenticated {
			return ""
		}
		return st.Profile.ID
	}
}
