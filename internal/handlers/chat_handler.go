package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learncrew/learncrew-agent/internal/chat"
)

// ChatHandler exposes the messaging screen state
type ChatHandler struct {
	service *chat.Service
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service *chat.Service) *ChatHandler {
	return &ChatHandler{
		service: service,
	}
}

// Conversations handles GET /api/v1/chat/conversations
func (h *ChatHandler) Conversations(c *gin.Context) {
	if err := h.service.RefreshConversations(c.Request.Context()); err != nil {
		if errors.Is(err, chat.ErrNotLoggedIn) {
			respondError(c, http.StatusUnauthorized, "Not logged in", err)
			return
		}
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.service.Conversations())
}

// Select handles POST /api/v1/chat/conversations/:userId/select
// Opens the conversation and starts its history poll. The poll outlives
// this request; only Deselect, another Select, or shutdown stops it.
func (h *ChatHandler) Select(c *gin.Context) {
	if err := h.service.Select(c.Param("userId")); err != nil {
		if errors.Is(err, chat.ErrNotLoggedIn) {
			respondError(c, http.StatusUnauthorized, "Not logged in", err)
			return
		}
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"selected": c.Param("userId")})
}

// Deselect handles DELETE /api/v1/chat/conversations/select
func (h *ChatHandler) Deselect(c *gin.Context) {
	h.service.Deselect()
	c.Status(http.StatusNoContent)
}

// Messages handles GET /api/v1/chat/messages
// Returns the open conversation's history in server order.
func (h *ChatHandler) Messages(c *gin.Context) {
	if h.service.Selected() == "" {
		respondError(c, http.StatusConflict, "No conversation selected", chat.ErrNoSelection)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"otherUserId": h.service.Selected(),
		"messages":    h.service.Messages(),
	})
}

// Send handles POST /api/v1/chat/messages
func (h *ChatHandler) Send(c *gin.Context) {
	var payload struct {
		Content string `json:"content" binding:"required,max=4000"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid message payload", ParseValidationErrors(err), err)
		return
	}

	message, err := h.service.Send(c.Request.Context(), payload.Content)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			respondError(c, http.StatusBadRequest, "Message content is empty", err)
		case errors.Is(err, chat.ErrNoSelection):
			respondError(c, http.StatusConflict, "No conversation selected", err)
		case errors.Is(err, chat.ErrNotLoggedIn):
			respondError(c, http.StatusUnauthorized, "Not logged in", err)
		default:
			respondUpstreamError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, message)
}

// SearchUsers handles GET /api/v1/chat/users/search?q=
func (h *ChatHandler) SearchUsers(c *gin.Context) {
	users, err := h.service.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		if errors.Is(err, chat.ErrNotLoggedIn) {
			respondError(c, http.StatusUnauthorized, "Not logged in", err)
			return
		}
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
