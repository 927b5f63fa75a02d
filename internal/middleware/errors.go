package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hireline/timeline/internal/httputil"
	"github.com/hireline/timeline/internal/metrics"
)

// respondError counts the rejection and writes the shared error envelope.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}
