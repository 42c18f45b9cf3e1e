package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yungbote/mentoro/internal/platform/logger"
)

const (
	defaultMaxAttempts  = 5
	defaultBackoffUnit  = time.Second
	defaultEventLogSize = 200
	writeTimeout        = 5 * time.Second
)

type Options struct {
	// URL is the ws:// or wss:// base; the channel dials {URL}/ws/{identity}.
	URL string
	// Identity returns the current user id. An empty id counts as a failed
	// connection attempt.
	Identity func() string
	// Token, when set, is sent as a bearer credential on the handshake.
	Token        func() string
	MaxAttempts  int
	BackoffUnit  time.Duration
	EventLogSize int
	Dialer       *websocket.Dialer
	Logger       *logger.Logger
	Now          func() time.Time
}

// Channel is a reconnecting websocket client for match rooms. Messages sent
// while disconnected are dropped, and nothing is replayed on reconnect.
type Channel struct {
	base        string
	identity    func() string
	token       func() string
	maxAttempts int
	unit        time.Duration
	logSize     int
	dialer      *websocket.Dialer
	log         *logger.Logger
	now         func() time.Time

	running atomic.Bool

	connMu  sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	events  []Event
	subs    map[int]chan Event
	nextSub int
}

func New(opts Options) (*Channel, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.URL), "/")
	if base == "" {
		return nil, errors.New("realtime: url required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, errors.New("realtime: url scheme must be ws or wss")
	}
	if opts.Identity == nil {
		return nil, errors.New("realtime: identity required")
	}
	c := &Channel{
		base:        base,
		identity:    opts.Identity,
		token:       opts.Token,
		maxAttempts: opts.MaxAttempts,
		unit:        opts.BackoffUnit,
		logSize:     opts.EventLogSize,
		dialer:      opts.Dialer,
		log:         opts.Logger,
		now:         opts.Now,
		subs:        map[int]chan Event{},
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = defaultMaxAttempts
	}
	if c.unit <= 0 {
		c.unit = defaultBackoffUnit
	}
	if c.logSize <= 0 {
		c.logSize = defaultEventLogSize
	}
	if c.dialer == nil {
		c.dialer = websocket.DefaultDialer
	}
	if c.log == nil {
		c.log = logger.NewNop()
	}
	c.log = c.log.With("component", "RealtimeChannel")
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Run keeps the channel connected until ctx ends or MaxAttempts reconnects
// in a row fail. The attempt counter resets after every successful
// connection; attempt n waits n × BackoffUnit. Giving up is not an error.
func (c *Channel) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("realtime: channel already running")
	}
	defer c.running.Store(false)

	attempt := 0
	for {
		if c.session(ctx) {
			attempt = 0
		}
		if ctx.Err() != nil {
			return nil
		}
		if attempt >= c.maxAttempts {
			c.log.Warn("Realtime channel giving up", "attempts", attempt)
			return nil
		}
		attempt++
		delay := time.Duration(attempt) * c.unit
		c.log.Debug("Realtime reconnect scheduled", "attempt", attempt, "delay", delay)
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

// Start runs the channel in the background unless it is already running.
func (c *Channel) Start(ctx context.Context) bool {
	if c.running.Load() {
		return false
	}
	go func() {
		if err := c.Run(ctx); err != nil {
			c.log.Debug("Realtime start skipped", "error", err)
		}
	}()
	return true
}

func (c *Channel) Running() bool { return c.running.Load() }

func (c *Channel) Connected() bool {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn != nil
}

// session dials once and reads until the connection drops. It reports
// whether the dial succeeded.
func (c *Channel) session(ctx context.Context) bool {
	id := strings.TrimSpace(c.identity())
	if id == "" {
		c.log.Debug("Realtime channel has no identity")
		return false
	}
	header := http.Header{}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			header.Set("Authorization", "Bearer "+tok)
		}
	}
	conn, resp, err := c.dialer.DialContext(ctx, c.base+"/ws/"+url.PathEscape(id), header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if ctx.Err() == nil {
			c.log.Warn("Realtime dial failed", "error", err)
		}
		return false
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	c.log.Info("Realtime channel connected", "user_id", id)

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.log.Info("Realtime channel disconnected", "error", err)
			}
			break
		}
		c.handle(data)
	}
	close(done)

	c.connMu.Lock()
	c.conn = nil
	c.connMu.Unlock()
	_ = conn.Close()
	return true
}

func (c *Channel) handle(data []byte) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil || ev.Type == "" {
		c.log.Warn("Dropping malformed realtime message", "error", err, "bytes", len(data))
		return
	}
	ev.Raw = append(json.RawMessage(nil), data...)
	ev.ReceivedAt = c.now()
	c.publish(ev)
}

func (c *Channel) publish(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	if over := len(c.events) - c.logSize; over > 0 {
		c.events = append(c.events[:0:0], c.events[over:]...)
	}
	for id, ch := range c.subs {
		select {
		case ch <- ev:
		default:
			c.log.Warn("Dropping realtime event; subscriber buffer full", "subscriber", id, "type", ev.Type)
		}
	}
}

// Subscribe returns a buffered stream of inbound events and a cancel func
// that closes it.
func (c *Channel) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

// Events returns the retained inbound events, oldest first.
func (c *Channel) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// Send writes ev if connected. It returns false when the event was dropped.
func (c *Channel) Send(ev Event) bool {
	if ev.Type == "" {
		return false
	}
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		c.log.Debug("Realtime send dropped; not connected", "type", ev.Type)
		return false
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		c.log.Warn("Realtime marshal failed", "type", ev.Type, "error", err)
		return false
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		c.log.Warn("Realtime send failed", "type", ev.Type, "error", err)
		return false
	}
	return true
}

func (c *Channel) JoinMatch(matchID string) bool {
	return c.Send(Event{Type: EventJoinMatch, MatchID: matchID})
}

func (c *Channel) SendMatchMessage(matchID, content string) bool {
	return c.Send(Event{Type: EventMatchMessage, MatchID: matchID, Content: content})
}

// SendCodeUpdate shares the editor contents; cursor may be nil.
func (c *Channel) SendCodeUpdate(matchID, code string, cursor *int) bool {
	return c.Send(Event{Type: EventCodeUpdate, MatchID: matchID, Code: code, Cursor: cursor})
}
