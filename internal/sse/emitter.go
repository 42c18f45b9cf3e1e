package sse

import "context"

// Emitter delivers a message to SSE subscribers, in process or through a bus.
type Emitter interface {
	Emit(ctx context.Context, msg Message)
}
