package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learncrew/learncrew-agent/internal/inbox"
	"github.com/learncrew/learncrew-agent/internal/models"
)

// InboxHandler exposes the received-items lifecycle
type InboxHandler struct {
	service *inbox.Service
}

// NewInboxHandler creates a new InboxHandler
func NewInboxHandler(service *inbox.Service) *InboxHandler {
	return &InboxHandler{
		service: service,
	}
}

// inboxItemView is an inbox item decorated with its display mapping and
// the derived message fields
type inboxItemView struct {
	models.InboxItem
	Display    inbox.Display        `json:"display"`
	Text       string               `json:"text"`
	Link       *models.LinkedEntity `json:"link,omitempty"`
	Actionable bool                 `json:"actionable"`
}

// List handles GET /api/v1/inbox
// Refreshes from the server and returns the decorated list.
func (h *InboxHandler) List(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		if errors.Is(err, inbox.ErrNotLoggedIn) {
			respondError(c, http.StatusUnauthorized, "Not logged in", err)
			return
		}
		respondUpstreamError(c, err)
		return
	}

	items := h.service.Items()
	views := make([]inboxItemView, 0, len(items))
	for _, item := range items {
		views = append(views, inboxItemView{
			InboxItem:  item,
			Display:    inbox.DisplayFor(item.Type),
			Text:       item.DisplayMessage(),
			Link:       item.LinkedEntity(),
			Actionable: item.IsActionable(),
		})
	}

	c.JSON(http.StatusOK, views)
}

// Respond handles POST /api/v1/inbox/:id/respond
func (h *InboxHandler) Respond(c *gin.Context) {
	var payload models.RespondPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid respond payload", ParseValidationErrors(err), err)
		return
	}

	err := h.service.Respond(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, inbox.ErrInvalidStatus):
			respondError(c, http.StatusBadRequest, "Status must be accepted or rejected", err)
		case errors.Is(err, inbox.ErrItemNotFound):
			respondError(c, http.StatusNotFound, "Item not found", err)
		case errors.Is(err, inbox.ErrNotActionable):
			respondError(c, http.StatusConflict, "Item is not actionable", err)
		case errors.Is(err, inbox.ErrNotLoggedIn):
			respondError(c, http.StatusUnauthorized, "Not logged in", err)
		default:
			respondUpstreamError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MarkRead handles POST /api/v1/inbox/:id/read
func (h *InboxHandler) MarkRead(c *gin.Context) {
	err := h.service.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, inbox.ErrItemNotFound):
			respondError(c, http.StatusNotFound, "Item not found", err)
		case errors.Is(err, inbox.ErrNotLoggedIn):
			respondError(c, http.StatusUnauthorized, "Not logged in", err)
		default:
			respondUpstreamError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
