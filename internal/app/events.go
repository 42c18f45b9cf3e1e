package app

import (
	"fmt"

	"github.com/yungbote/mentoro/internal/config"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/sse"
	"github.com/yungbote/mentoro/internal/sse/bus"
)

// Events is the SSE fan-out. With a redis bus, emitters publish to redis and
// the forwarder feeds the local hub; otherwise they broadcast directly.
type Events struct {
	Hub     *sse.Hub
	Bus     bus.Bus
	Emitter sse.Emitter
}

func (e Events) Close() error {
	if e.Bus == nil {
		return nil
	}
	return e.Bus.Close()
}

func wireEvents(log *logger.Logger, cfg config.SSEConfig) (Events, error) {
	log.Info("Wiring SSE hub...")
	hub := sse.NewHub(log)
	if cfg.RedisAddr == "" {
		return Events{Hub: hub, Emitter: hub}, nil
	}
	b, err := bus.NewRedisBus(log, cfg.RedisAddr, cfg.Channel)
	if err != nil {
		return Events{}, fmt.Errorf("init redis sse bus: %w", err)
	}
	return Events{Hub: hub, Bus: b, Emitter: bus.Emitter{Bus: b}}, nil
}
