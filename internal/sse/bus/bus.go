package bus

import (
	"context"

	"github.com/yungbote/mentoro/internal/sse"
)

// Bus fans SSE messages out across processes sharing one store.
type Bus interface {
	Publish(ctx context.Context, msg sse.Message) error
	StartForwarder(ctx context.Context, onMsg func(m sse.Message)) error
	Close() error
}

// Emitter publishes through a Bus; the forwarder on each process feeds its
// own Hub.
type Emitter struct{ Bus Bus }

func (e Emitter) Emit(ctx context.Context, msg sse.Message) {
	_ = e.Bus.Publish(ctx, msg)
}
