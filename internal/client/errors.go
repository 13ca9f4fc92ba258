package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors classify backend failures for call sites. Match with
// errors.Is; the wrapped message carries the backend's own error text.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("backend unavailable")
	ErrTransient    = errors.New("transient failure")
)

// StatusError reports a non-OK HTTP response with the backend's message.
type StatusError struct {
	StatusCode int
	Message    string
	Operation  string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Operation != "" {
		return fmt.Sprintf("%s: backend returned %d: %s", e.Operation, e.StatusCode, msg)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, msg)
}

// Unwrap maps the status code to a classification sentinel.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return ErrConflict
	case e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.StatusCode >= 500:
		return ErrUnavailable
	default:
		return ErrTransient
	}
}
