package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusSource reports the liveness of optional subsystems.
type StatusSource interface {
	AIAvailable() bool
	RealtimeConnected() bool
	Authenticated() bool
}

type HealthHandler struct {
	status StatusSource
}

func NewHealthHandler(status StatusSource) *HealthHandler { return &HealthHandler{status: status} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/status
func (h *HealthHandler) Status(c *gin.Context) {
	if h.status == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"ai_available":       h.status.AIAvailable(),
		"realtime_connected": h.status.RealtimeConnected(),
		"authenticated":      h.status.Authenticated(),
	})
}
