package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learncrew/learncrew-agent/internal/poller"
)

// BadgesHandler serves the header badge counts kept fresh by the
// background poller. Reads never trigger a fetch.
type BadgesHandler struct {
	badges *poller.Badges
}

// NewBadgesHandler creates a new BadgesHandler
func NewBadgesHandler(badges *poller.Badges) *BadgesHandler {
	return &BadgesHandler{
		badges: badges,
	}
}

// Get handles GET /api/v1/badges
func (h *BadgesHandler) Get(c *gin.Context) {
	pending, unread := h.badges.Counts()
	c.JSON(http.StatusOK, gin.H{
		"pendingRequests": pending,
		"unreadMessages":  unread,
	})
}
