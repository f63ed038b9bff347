package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return "validation failed"
	}
	return err.Err.Error()
}

// UpstreamError is returned when a third-party API answers with a non-2xx status.
type UpstreamError struct {
	Operation string
	Status    int
	Body      string
}

func NewUpstreamError(op string, status int, body string) error {
	return &UpstreamError{Operation: op, Status: status, Body: body}
}

func (err UpstreamError) Error() string {
	body := Truncate(err.Body, 200)
	if body != err.Body {
		body += "..."
	}
	return fmt.Sprintf("%s: upstream status %d: %s", err.Operation, err.Status, body)
}

// UpstreamStatus returns the HTTP status of the UpstreamError wrapped in err, if any.
func UpstreamStatus(err error) (int, bool) {
	var uErr *UpstreamError
	if errors.As(err, &uErr) {
		return uErr.Status, true
	}
	return 0, false
}

// IsRateLimited reports whether err was caused by an upstream 429.
func IsRateLimited(err error) bool {
	status, ok := UpstreamStatus(err)
	return ok && status == http.StatusTooManyRequests
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

// FriendlyMessage classifies err by its message and returns text safe to show to end users.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "jwt") || strings.Contains(msg, "token"):
		return "Your session has expired. Please sign in again."
	case strings.Contains(msg, "permission denied") || strings.Contains(msg, "forbidden"):
		return "You do not have permission to perform this action."
	case strings.Contains(msg, "duplicate key") || strings.Contains(msg, "already exists"):
		return "This record already exists."
	case strings.Contains(msg, "network") || strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return "A network error occurred. Please check your connection and try again."
	default:
		return http.StatusText(http.StatusInternalServerError)
	}
}
