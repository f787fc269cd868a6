package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contractops/internal/core/clock"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	clock     clock.Clock
	version   string
	startedAt time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(clk clock.Clock, version string) *HealthHandler {
	return &HealthHandler{
		clock:     clk,
		version:   version,
		startedAt: clk.Now(),
	}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe. Storage is in-process, so readiness
// follows liveness.
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"storage": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	now := h.clock.Now()
	c.JSON(http.StatusOK, gin.H{
		"app":     "contractops",
		"version": h.version,
		"time":    now.UTC(),
		"uptime":  now.Sub(h.startedAt).String(),
	})
}
