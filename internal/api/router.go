package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/hireline/timeline/internal/dbpool"
	"github.com/hireline/timeline/internal/middleware"
	"github.com/hireline/timeline/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool // nil for the rest source
	Hub         *ws.Hub
	Timeline    TimelineService
	CORSOrigins []string
	APIKey      string
	Version     string
	Source      string
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB
	rateLimit   = 50      // requests per second per IP
	rateBurst   = 100     // token bucket burst size

	wsRoute = "/api/v1/ws"
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.RequestMetrics(wsRoute))

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	var clients ClientCounter
	if deps.Hub != nil {
		clients = deps.Hub
	}

	health := NewHealthHandler(deps.Pool, deps.Timeline, clients, log, deps.Version, deps.Source)
	timeline := NewTimelineHandler(deps.Timeline, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Everything else requires the dashboard key when one is configured.
	guard := middleware.NewBruteForceGuard(ctx, log)
	api.Use(middleware.APIKeyAuth(deps.APIKey, log, guard))

	api.GET("/timeline", timeline.List)
	api.GET("/timeline/stats", timeline.Stats)
	api.POST("/timeline/refresh", timeline.Refresh)

	if deps.Hub != nil {
		api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
