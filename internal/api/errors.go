package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hireline/timeline/internal/httputil"
	"github.com/hireline/timeline/internal/metrics"
	"github.com/hireline/timeline/internal/models"
	"github.com/hireline/timeline/internal/service"
)

// Error codes of the JSON error envelope.
const (
	ErrCodeInternalError   = "internal_error"
	ErrCodeUnauthorized    = httputil.CodeUnauthorized
	ErrCodeRateLimited     = httputil.CodeRateLimited
	ErrCodeValidationError = "validation_error"
	ErrCodeFetchFailed     = "fetch_failed"
	ErrCodeTimeout         = "timeout"
)

// errorMapping translates a service error into an HTTP response.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string // empty means use err.Error()
}

// serviceErrors is checked in order; the first errors.Is match wins.
// ErrFetchFailed precedes the context errors because a fetch that timed out
// is reported as a failed fetch.
var serviceErrors = []errorMapping{
	{models.ErrSearchTooLong, http.StatusBadRequest, ErrCodeValidationError, ""},
	{models.ErrUnknownSelector, http.StatusBadRequest, ErrCodeValidationError, ""},
	{models.ErrFetchFailed, http.StatusBadGateway, ErrCodeFetchFailed, service.RefreshFailedMessage},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, ErrCodeTimeout, "refresh did not complete in time"},
	{context.Canceled, http.StatusGatewayTimeout, ErrCodeTimeout, "refresh did not complete in time"},
}

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondServiceError maps err through serviceErrors. Unmapped errors are
// logged and returned as an opaque 500.
func respondServiceError(c *gin.Context, log *logrus.Logger, op string, err error) {
	for _, m := range serviceErrors {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		respondError(c, m.status, m.code, msg)

		return
	}

	log.WithError(err).WithField("op", op).Error("unhandled service error")
	respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
