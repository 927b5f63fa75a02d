package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error response from the recruiting API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("hireline: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound returns true if the error is a 404 not found.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized returns true if the backend rejected our credentials.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, status int) bool {
	var e *APIError
	if errors.As(err, &e) {
		return e.StatusCode == status
	}
	return false
}

// parseAPIError decodes the backend's error body. FastAPI-style backends
// answer {"detail": "..."}; anything else falls back to the raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  any    `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
		return apiErr
	}

	apiErr.Code = payload.Code
	apiErr.Message = payload.Message
	if apiErr.Message == "" {
		if s, ok := payload.Detail.(string); ok {
			apiErr.Message = s
		}
	}
	if apiErr.Code == "" {
		apiErr.Code = http.StatusText(statusCode)
	}
	if apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	return apiErr
}
