package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learncrew/learncrew-agent/internal/notify"
)

// NotificationsHandler drains pending transient notifications. Each
// notification is delivered exactly once: reading clears the queue.
type NotificationsHandler struct {
	center *notify.Center
}

// NewNotificationsHandler creates a new NotificationsHandler
func NewNotificationsHandler(center *notify.Center) *NotificationsHandler {
	return &NotificationsHandler{
		center: center,
	}
}

// Drain handles GET /api/v1/notifications
func (h *NotificationsHandler) Drain(c *gin.Context) {
	pending := h.center.Drain()
	if pending == nil {
		pending = []notify.Notification{}
	}
	c.JSON(http.StatusOK, pending)
}
