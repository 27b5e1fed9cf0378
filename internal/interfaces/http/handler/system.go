package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/settlement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger is a dependency probed by the health check
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// BreakerState reports the inline posting circuit state
type BreakerState interface {
	State() string
}

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	version   string
	checks    map[string]Pinger
	breaker   BreakerState
	timeout   time.Duration
}

// NewSystemHandler creates a new SystemHandler. checks maps a dependency
// name to its probe; breaker may be nil when inline posting is disabled.
func NewSystemHandler(version string, checks map[string]Pinger, breaker BreakerState) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		version:   version,
		checks:    checks,
		breaker:   breaker,
		timeout:   2 * time.Second,
	}
}

// HealthResponse is the health probe body
type HealthResponse struct {
	Status         string            `json:"status" example:"ok"`
	Version        string            `json:"version" example:"1.0.0"`
	GoVersion      string            `json:"go_version" example:"go1.25.5"`
	Uptime         string            `json:"uptime" example:"1h30m45s"`
	Checks         map[string]string `json:"checks"`
	PostingCircuit string            `json:"posting_circuit,omitempty" example:"closed"`
}

// Health godoc
// @ID           getSystemHealth
// @Summary      Health check
// @Description  Probes the database and Redis. Returns 503 when a dependency is down.
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    make(map[string]string, len(h.checks)),
	}
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "up"
	}
	if h.breaker != nil {
		resp.PostingCircuit = h.breaker.State()
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
