package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learncrew/learncrew-agent/internal/api"
	apperrors "github.com/learncrew/learncrew-agent/pkg/errors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondUpstreamError translates an upstream failure into the local
// response: same status class the server used, with the human-readable
// message the client would show in a toast.
func respondUpstreamError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case apperrors.Is(err, apperrors.ErrAccessDenied):
		status = http.StatusForbidden
	case apperrors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	case apperrors.Is(err, apperrors.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		status = http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrUnavailable):
		status = http.StatusBadGateway
	}

	respondError(c, status, api.UserMessage(err), err)
}
