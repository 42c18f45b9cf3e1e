package app

import (
	"github.com/yungbote/mentoro/internal/config"
	apphttp "github.com/yungbote/mentoro/internal/http"
	"github.com/yungbote/mentoro/internal/observability"
	"github.com/yungbote/mentoro/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg *config.Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) apphttp.RouterConfig {
	return apphttp.RouterConfig{
		Log:                log,
		ServiceName:        cfg.Tracing.ServiceName,
		AllowedOrigins:     cfg.HTTP.AllowedOrigins,
		Metrics:            metrics,
		SessionMiddleware:  middleware.Session,
		AccountHandler:     handlers.Account,
		ProgressionHandler: handlers.Progression,
		BuddyHandler:       handlers.Buddy,
		BackendHandler:     handlers.Backend,
		BattleHandler:      handlers.Battle,
		RealtimeHandler:    handlers.Realtime,
		HealthHandler:      handlers.Health,
	}
}
