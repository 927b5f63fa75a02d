package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hireline/timeline/internal/httputil"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request an ID. A client-supplied X-Request-ID is
// kept when it is a UUID, so dashboards can correlate their own logs;
// anything else is replaced and logged as client_request_id.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader(RequestIDHeader)

		var id string
		if parsed, err := uuid.Parse(clientID); err == nil {
			id = parsed.String()
		} else {
			id = uuid.NewString()
			if clientID != "" {
				log.WithFields(logrus.Fields{
					"request_id":        id,
					"client_request_id": clientID,
				}).Debug("replaced non-uuid client request id")
			}
		}

		c.Set(httputil.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
