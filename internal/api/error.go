package api

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/learncrew/learncrew-agent/pkg/errors"
)

// Error is the failure of a single API call. StatusCode is zero for
// transport failures (no response at all), in which case Err holds the
// underlying cause.
type Error struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Operation, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: upstream returned status %d", e.Operation, e.StatusCode)
}

// Unwrap maps the failure onto the application's sentinel errors so
// callers can branch with errors.Is.
func (e *Error) Unwrap() error {
	if e.Err != nil {
		return apperrors.ErrUnavailable
	}
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrAccessDenied
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusConflict:
		return apperrors.ErrConflict
	case http.StatusPaymentRequired:
		return apperrors.ErrInsufficientBalance
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.ErrInvalidInput
	default:
		return apperrors.ErrInternal
	}
}

// UserMessage returns the text shown in a transient notification: the
// server's message when present, otherwise a generic fallback.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return "Could not reach the server. Please try again."
	}
	return "Something went wrong. Please try again."
}

// UserMessage extracts the notification text from any error: the API
// error's message when the error came from an API call, otherwise a
// generic fallback.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return "Something went wrong. Please try again."
}
