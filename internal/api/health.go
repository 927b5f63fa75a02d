// Package api provides the HTTP handlers of the timeline service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hireline/timeline/internal/dbpool"
)

// ClientCounter reports connected WebSocket clients.
type ClientCounter interface {
	ClientCount() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	pool      *dbpool.Pool
	ready     ReadinessChecker
	hub       ClientCounter
	log       *logrus.Logger
	version   string
	source    string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. pool and hub may be nil.
func NewHealthHandler(pool *dbpool.Pool, ready ReadinessChecker, hub ClientCounter, log *logrus.Logger, version, source string) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		ready:     ready,
		hub:       hub,
		log:       log,
		version:   version,
		source:    source,
		startTime: time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status           string  `json:"status"`
	Version          string  `json:"version"`
	Source           string  `json:"source"`
	Database         string  `json:"database"`
	WebSocketClients int     `json:"websocket_clients"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Source:        h.source,
		Database:      "connected",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	// Best-effort database ping (non-fatal for liveness).
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.pool.HealthCheck(ctx); err != nil {
			resp.Database = "disconnected"
		}
	} else {
		resp.Database = "not_configured"
	}

	if h.hub != nil {
		resp.WebSocketClients = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready. The service is ready once a timeline
// has been built and, for the postgres source, the database answers.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"timeline": "ok"}
	status := "ready"
	statusCode := http.StatusOK

	if h.ready == nil || !h.ready.Ready() {
		checks["timeline"] = "pending"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	if h.pool != nil {
		checks["database"] = "ok"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.pool.HealthCheck(ctx); err != nil {
			h.log.WithError(err).Error("readiness: database health check failed")
			checks["database"] = "error"
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
		}
	}

	c.JSON(statusCode, readinessResponse{
		Status: status,
		Checks: checks,
	})
}
