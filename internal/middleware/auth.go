package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hireline/timeline/internal/httputil"
)

// authTimingFloor is the minimum response time for rejected requests so a
// caller cannot learn anything about the key from response timing.
const authTimingFloor = 50 * time.Millisecond

// accessTokenParam carries the key on WebSocket upgrades, where browsers
// cannot set an Authorization header.
const accessTokenParam = "access_token"

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// APIKeyAuth returns Gin middleware that requires the static dashboard API
// key as a Bearer token. An empty key disables authentication. When a guard
// is provided, clients that repeatedly present a wrong key are locked out.
func APIKeyAuth(apiKey string, log *logrus.Logger, guards ...*BruteForceGuard) gin.HandlerFunc {
	if apiKey == "" {
		return func(c *gin.Context) { c.Next() }
	}

	var guard *BruteForceGuard
	if len(guards) > 0 {
		guard = guards[0]
	}

	want := sha256.Sum256([]byte(apiKey))

	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		ip := c.ClientIP()
		if guard != nil && guard.IsBlocked(ip) {
			respondError(c, http.StatusTooManyRequests, httputil.CodeRateLimited, "too many failed authentication attempts")
			return
		}

		token := ExtractBearerToken(c)
		if token == "" && isWebSocketUpgrade(c) {
			token = c.Query(accessTokenParam)
		}
		if token == "" {
			respondError(c, http.StatusUnauthorized, httputil.CodeUnauthorized, "missing or invalid authorization header")
			return
		}

		got := sha256.Sum256([]byte(token))
		if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
			logAuthFailure(log, c)

			if guard != nil {
				guard.RecordFailure(ip)
			}

			respondError(c, http.StatusUnauthorized, httputil.CodeUnauthorized, "invalid api key")
			return
		}

		if guard != nil {
			guard.Reset(ip)
		}

		c.Next()
	}
}

// ExtractBearerToken extracts the API key from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func isWebSocketUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

// logAuthFailure logs a failed authentication attempt without the key itself.
func logAuthFailure(log *logrus.Logger, c *gin.Context) {
	log.WithFields(logrus.Fields{
		"client_ip":  c.ClientIP(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"request_id": httputil.RequestID(c),
	}).Warn("authentication failed: invalid api key")
}
