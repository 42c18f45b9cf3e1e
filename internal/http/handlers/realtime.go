package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mentoro/internal/http/response"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/sse"
)

var errRealtimeDisabled = errors.New("realtime channel is disabled")

const headerSSEClientID = "X-SSE-Client-Id"

// RealtimeHandler serves the SSE stream. Each stream is one hub client;
// its id is returned in X-SSE-Client-Id for subscribe and unsubscribe.
type RealtimeHandler struct {
	Log *logger.Logger
	Hub *sse.Hub

	mu      sync.RWMutex
	clients map[uuid.UUID]*sse.Client
}

func NewRealtimeHandler(log *logger.Logger, hub *sse.Hub) *RealtimeHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &RealtimeHandler{
		Log:     log.With("handler", "RealtimeHandler"),
		Hub:     hub,
		clients: make(map[uuid.UUID]*sse.Client),
	}
}

// GET /sse/stream?channel=progression&channel=realtime
// Without channel parameters the stream carries both app channels.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	channels := c.QueryArray("channel")
	if len(channels) == 0 {
		channels = []string{sse.ChannelProgression, sse.ChannelRealtime}
	}

	client := h.Hub.NewClient()
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	for _, ch := range channels {
		h.Hub.AddChannel(client, ch)
	}
	h.Log.Info("SSEStream open", "client_id", client.ID.String(), "channels", strings.Join(channels, ","))
	c.Writer.Header().Set(headerSSEClientID, client.ID.String())

	h.Hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	delete(h.clients, client.ID)
	h.mu.Unlock()
	h.Hub.CloseClient(client)
}

type channelRequest struct {
	ClientID string `json:"client_id"`
	Channel  string `json:"channel"`
}

func (h *RealtimeHandler) lookup(c *gin.Context) (*sse.Client, string, bool) {
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Channel) == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_channel", errors.New("invalid channel"))
		return nil, "", false
	}
	id, err := uuid.Parse(strings.TrimSpace(req.ClientID))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_client_id", err)
		return nil, "", false
	}
	h.mu.RLock()
	client, exists := h.clients[id]
	h.mu.RUnlock()
	if !exists {
		response.RespondError(c, http.StatusConflict, "no_stream", errors.New("no active SSE connection for this client"))
		return nil, "", false
	}
	return client, req.Channel, true
}

// POST /sse/subscribe
// body: { "client_id": "...", "channel": "..." }
func (h *RealtimeHandler) SSESubscribe(c *gin.Context) {
	client, channel, ok := h.lookup(c)
	if !ok {
		return
	}
	h.Hub.AddChannel(client, channel)
	response.RespondOK(c, gin.H{"message": "subscribed", "channel": channel})
}

// POST /sse/unsubscribe
func (h *RealtimeHandler) SSEUnsubscribe(c *gin.Context) {
	client, channel, ok := h.lookup(c)
	if !ok {
		return
	}
	h.Hub.RemoveChannel(client, channel)
	response.RespondOK(c, gin.H{"message": "unsubscribed", "channel": channel})
}
