package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mentoro/internal/config"
	apphttp "github.com/yungbote/mentoro/internal/http"
	"github.com/yungbote/mentoro/internal/observability"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/session"
	"github.com/yungbote/mentoro/internal/sse"
	"github.com/yungbote/mentoro/internal/storage"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Server   *apphttp.Server
	Store    *progression.Store
	Sessions *session.Manager
	Clients  Clients
	Services Services
	SSEHub   *sse.Hub

	events       Events
	blob         storage.Blob
	shutdownOTel func(context.Context) error
}

// New builds the whole process. ctx bounds background work started on behalf
// of requests, such as the realtime loop after a login.
func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	shutdownOTel := observability.InitOTel(ctx, log, cfg.Env, cfg.Tracing)
	metrics := observability.Init()

	events, err := wireEvents(log, cfg.SSE)
	if err != nil {
		log.Sync()
		return nil, err
	}

	store, blob, err := wireStore(ctx, log, cfg.Store, events)
	if err != nil {
		_ = events.Close()
		log.Sync()
		return nil, err
	}

	sessions := session.NewManager(log, cfg.Session.Token, cfg.Session.UserID)
	sessions.OnExpired(func(string) { store.Logout() })

	clients, err := wireClients(ctx, log, cfg, store, sessions)
	if err != nil {
		_ = blob.Close()
		_ = events.Close()
		log.Sync()
		return nil, err
	}

	serviceset := wireServices(ctx, log, store, sessions, clients, events.Emitter)
	handlerset := wireHandlers(ctx, log, store, sessions, clients, serviceset, events.Hub)
	middleware := wireMiddleware(log, sessions)
	server := apphttp.NewServer(wireRouter(log, cfg, metrics, handlerset, middleware))

	return &App{
		Log:          log,
		Cfg:          cfg,
		Server:       server,
		Store:        store,
		Sessions:     sessions,
		Clients:      clients,
		Services:     serviceset,
		SSEHub:       events.Hub,
		events:       events,
		blob:         blob,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Run serves HTTP and the background loops until ctx ends or one of them
// fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTP.Addr)
		return a.Server.Run(gctx, a.Cfg.HTTP.Addr, a.Cfg.HTTP.ReadHeaderTimeout.Duration, a.Cfg.HTTP.ShutdownTimeout.Duration)
	})
	g.Go(func() error {
		return a.Services.Battles.Watch(gctx)
	})
	if a.events.Bus != nil {
		if err := a.events.Bus.StartForwarder(gctx, a.events.Hub.Broadcast); err != nil {
			return fmt.Errorf("start sse forwarder: %w", err)
		}
	}
	if a.Clients.Realtime != nil && a.Sessions.Authenticated() {
		a.Clients.Realtime.Start(gctx)
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if err := a.events.Close(); err != nil {
		a.Log.Warn("close sse bus", "error", err)
	}
	if a.blob != nil {
		if err := a.blob.Close(); err != nil {
			a.Log.Warn("close snapshot storage", "error", err)
		}
	}
	if a.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownOTel(ctx); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
		cancel()
	}
	a.Log.Sync()
}
