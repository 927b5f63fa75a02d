package middleware

import (
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hireline/timeline/internal/metrics"
)

// RequestMetrics records request counts and durations per route pattern.
// Routes in longLived (WebSocket upgrades) are counted but not timed.
func RequestMetrics(longLived ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		if !slices.Contains(longLived, route) {
			metrics.RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		}
	}
}
