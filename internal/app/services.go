package app

import (
	"context"

	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/services"
	"github.com/yungbote/mentoro/internal/session"
	"github.com/yungbote/mentoro/internal/sse"
)

type Services struct {
	Account services.AccountService
	Buddy   services.BuddyService
	Battles services.BattleService
}

func wireServices(ctx context.Context, log *logger.Logger, store *progression.Store, sessions *session.Manager, clients Clients, emit sse.Emitter) Services {
	log.Info("Wiring services...")

	// Interfaces stay nil rather than holding a typed nil channel.
	var (
		starter services.Starter
		channel services.MatchChannel
	)
	if clients.Realtime != nil {
		starter = clients.Realtime
		channel = clients.Realtime
	}

	return Services{
		Account: services.NewAccountService(ctx, log, store, sessions, clients.Backend, starter),
		Buddy:   services.NewBuddyService(log, store, clients.AI),
		Battles: services.NewBattleService(log, store, clients.Backend, channel, emit),
	}
}
