package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hireline/timeline/internal/httputil"
)

// MaxBodySize rejects requests that declare a body over maxBytes and caps
// the rest with http.MaxBytesReader.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			respondError(c, http.StatusRequestEntityTooLarge, httputil.CodeRequestTooLarge, "request body too large")

			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
