package app

import (
	"context"

	httpH "github.com/yungbote/mentoro/internal/http/handlers"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/session"
	"github.com/yungbote/mentoro/internal/sse"
)

type Handlers struct {
	Account     *httpH.AccountHandler
	Progression *httpH.ProgressionHandler
	Buddy       *httpH.BuddyHandler
	Backend     *httpH.BackendHandler
	Battle      *httpH.BattleHandler
	Realtime    *httpH.RealtimeHandler
	Health      *httpH.HealthHandler
}

func wireHandlers(ctx context.Context, log *logger.Logger, store *progression.Store, sessions *session.Manager, clients Clients, svc Services, hub *sse.Hub) Handlers {
	log.Info("Wiring handlers...")
	var live httpH.LiveChannel
	if clients.Realtime != nil {
		live = clients.Realtime
	}
	return Handlers{
		Account:     httpH.NewAccountHandler(svc.Account, store),
		Progression: httpH.NewProgressionHandler(store),
		Buddy:       httpH.NewBuddyHandler(svc.Buddy, clients.AI),
		Backend:     httpH.NewBackendHandler(clients.Backend, store),
		Battle:      httpH.NewBattleHandler(ctx, svc.Battles, live),
		Realtime:    httpH.NewRealtimeHandler(log, hub),
		Health:      httpH.NewHealthHandler(appStatus{clients: clients, sessions: sessions}),
	}
}

type appStatus struct {
	clients  Clients
	sessions *session.Manager
}

func (s appStatus) AIAvailable() bool { return s.clients.AI.Available() }

func (s appStatus) RealtimeConnected() bool {
	return s.clients.Realtime != nil && s.clients.Realtime.Connected()
}

func (s appStatus) Authenticated() bool { return s.sessions.Authenticated() }
