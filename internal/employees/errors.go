package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// User-facing messages used when the backend gives nothing better.
const (
	MsgGeneric     = "An error occurred while processing your request."
	MsgNotFound    = "The requested resource was not found."
	MsgInvalidData = "Invalid data provided. Please check your input."
)

// APIError is returned for every non-2xx backend response.
type APIError struct {
	Op         string
	StatusCode int
	// Message is the "message" field of the backend error body, if any.
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// IsNotFound reports whether err carries a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// UserMessage derives the alert text for a failed call: the backend's own
// message first, then a status based message, then a generic one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return MsgNotFound
		case http.StatusBadRequest:
			return MsgInvalidData
		}
	}
	return MsgGeneric
}

// ErrorHandler observes every failed backend call before the error is
// returned to the caller.
type ErrorHandler func(ctx context.Context, op string, err error)

// LogErrors returns an ErrorHandler that logs failures through logger.
func LogErrors(logger *slog.Logger) ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, op string, err error) {
		attrs := []any{"operation", op, "error", err}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			attrs = append(attrs, "status_code", apiErr.StatusCode)
		}
		logger.ErrorContext(ctx, "Employee API call failed", attrs...)
	}
}
