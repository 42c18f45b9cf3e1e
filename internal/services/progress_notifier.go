package services

import (
	"context"
	"sync"

	"github.com/yungbote/mentoro/internal/observability"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/sse"
)

// StateView is the read side of the store the notifier needs.
type StateView interface {
	State() progression.State
}

// ProgressNotifier turns store changes into SSE messages on the
// progression channel.
type ProgressNotifier interface {
	OnChange(c progression.Change)
	Bind(view StateView)
}

type progressNotifier struct {
	emit sse.Emitter

	mu     sync.Mutex
	view   StateView
	lastID string
}

func NewProgressNotifier(emit sse.Emitter) ProgressNotifier {
	return &progressNotifier{emit: emit}
}

// Bind attaches the store after construction; the store takes the
// notifier's OnChange as a listener, so neither can be built first.
func (n *progressNotifier) Bind(view StateView) {
	n.mu.Lock()
	n.view = view
	n.mu.Unlock()
}

func (n *progressNotifier) OnChange(c progression.Change) {
	observability.Current().IncStoreAction(c.Action)
	if n.emit == nil {
		return
	}
	ctx := context.Background()

	n.mu.Lock()
	view := n.view
	n.mu.Unlock()
	if view == nil {
		n.emit.Emit(ctx, sse.Message{Channel: sse.ChannelProgression, Event: sse.EventStateChanged, Data: c})
		return
	}

	st := view.State()
	n.emit.Emit(ctx, sse.Message{
		Channel: sse.ChannelProgression,
		Event:   sse.EventStateChanged,
		Data: map[string]any{
			"change":       c,
			"profile":      st.Profile,
			"unread_count": st.UnreadCount(),
		},
	})

	if len(st.Notifications) == 0 {
		return
	}
	latest := st.Notifications[len(st.Notifications)-1]
	n.mu.Lock()
	fresh := latest.ID != n.lastID
	n.lastID = latest.ID
	n.mu.Unlock()
	if fresh && !latest.Read {
		n.emit.Emit(ctx, sse.Message{Channel: sse.ChannelProgression, Event: sse.EventNotificationAdded, Data: latest})
	}
}
