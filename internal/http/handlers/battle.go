package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentoro/internal/backend"
	"github.com/yungbote/mentoro/internal/http/response"
	"github.com/yungbote/mentoro/internal/realtime"
	"github.com/yungbote/mentoro/internal/services"
)

// LiveChannel is the status side of the realtime channel.
type LiveChannel interface {
	Start(ctx context.Context) bool
	Running() bool
	Connected() bool
	Events() []realtime.Event
}

type BattleHandler struct {
	battles services.BattleService
	live    LiveChannel
	runCtx  context.Context
}

// NewBattleHandler wires battle routes. live may be nil when realtime is
// disabled; runCtx bounds loops started through Connect.
func NewBattleHandler(runCtx context.Context, battles services.BattleService, live LiveChannel) *BattleHandler {
	return &BattleHandler{battles: battles, live: live, runCtx: runCtx}
}

// POST /battles
func (h *BattleHandler) Create(c *gin.Context) {
	var req backend.CreateBattleRequest
	if !bindOrReject(c, &req) {
		return
	}
	v, err := h.battles.Create(c.Request.Context(), req)
	reply(c, v, err)
}

// GET /battles/active
func (h *BattleHandler) Active(c *gin.Context) {
	v, err := h.battles.Active(c.Request.Context())
	reply(c, v, err)
}

// POST /battles/:id/join
func (h *BattleHandler) Join(c *gin.Context) {
	v, err := h.battles.Join(c.Request.Context(), c.Param("id"))
	reply(c, v, err)
}

// POST /battles/:id/submit
// body: { "code": "..." }
func (h *BattleHandler) Submit(c *gin.Context) {
	var req backend.SubmitCodeRequest
	if !bindOrReject(c, &req) {
		return
	}
	v, err := h.battles.Submit(c.Request.Context(), c.Param("id"), req.Code)
	reply(c, v, err)
}

// POST /battles/:id/message
// body: { "content": "gl hf" }
// sent is false while the live channel is down; the message is not queued.
func (h *BattleHandler) Message(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if !bindOrReject(c, &req) {
		return
	}
	sent, err := h.battles.Message(c.Param("id"), req.Content)
	reply(c, gin.H{"sent": sent}, err)
}

// POST /battles/:id/code
// body: { "code": "...", "cursor": 12 }
func (h *BattleHandler) CodeUpdate(c *gin.Context) {
	var req struct {
		Code   string `json:"code"`
		Cursor *int   `json:"cursor"`
	}
	if !bindOrReject(c, &req) {
		return
	}
	sent, err := h.battles.CodeUpdate(c.Param("id"), req.Code, req.Cursor)
	reply(c, gin.H{"sent": sent}, err)
}

// GET /realtime/status
func (h *BattleHandler) Status(c *gin.Context) {
	if h.live == nil {
		response.RespondOK(c, gin.H{"enabled": false, "running": false, "connected": false})
		return
	}
	response.RespondOK(c, gin.H{"enabled": true, "running": h.live.Running(), "connected": h.live.Connected()})
}

// POST /realtime/connect
// Restarts the connection loop after it gave up.
func (h *BattleHandler) Connect(c *gin.Context) {
	if h.live == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "realtime_disabled", errRealtimeDisabled)
		return
	}
	started := h.live.Start(h.runCtx)
	response.RespondOK(c, gin.H{"started": started, "running": h.live.Running()})
}

// GET /realtime/events
func (h *BattleHandler) Events(c *gin.Context) {
	if h.live == nil {
		response.RespondOK(c, gin.H{"events": []realtime.Event{}})
		return
	}
	response.RespondOK(c, gin.H{"events": h.live.Events()})
}
