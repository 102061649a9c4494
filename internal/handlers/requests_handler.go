package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learncrew/learncrew-agent/internal/api"
	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/learncrew/learncrew-agent/internal/session"
)

// RequestsHandler exposes the outgoing side of the request lifecycle:
// creating requests and pitches, cancelling, ending relationships, and
// the public pitch board. These are stateless pass-throughs; the
// received-items list lives in InboxHandler.
type RequestsHandler struct {
	apiClient *api.Client
	store     *session.Store
}

// NewRequestsHandler creates a new RequestsHandler
func NewRequestsHandler(apiClient *api.Client, store *session.Store) *RequestsHandler {
	return &RequestsHandler{
		apiClient: apiClient,
		store:     store,
	}
}

func (h *RequestsHandler) token(c *gin.Context) (string, bool) {
	token, err := h.store.Token()
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not logged in", err)
		return "", false
	}
	return token, true
}

// Create handles POST /api/v1/requests
func (h *RequestsHandler) Create(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	var payload models.CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request payload", ParseValidationErrors(err), err)
		return
	}

	item, err := h.apiClient.CreateRequest(c.Request.Context(), token, &payload)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListSent handles GET /api/v1/requests/sent
func (h *RequestsHandler) ListSent(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	items, err := h.apiClient.ListSent(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// ListPitches handles GET /api/v1/requests/pitches
func (h *RequestsHandler) ListPitches(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	items, err := h.apiClient.ListPublicPitches(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// ClaimPitch handles POST /api/v1/requests/pitches/:id/claim
func (h *RequestsHandler) ClaimPitch(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	item, err := h.apiClient.ClaimPitch(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Cancel handles DELETE /api/v1/requests/:id
func (h *RequestsHandler) Cancel(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	if err := h.apiClient.CancelRequest(c.Request.Context(), token, c.Param("id")); err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// End handles PUT /api/v1/requests/:id/end
func (h *RequestsHandler) End(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	if err := h.apiClient.EndRelationship(c.Request.Context(), token, c.Param("id")); err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CheckConnection handles GET /api/v1/requests/connection/:userId
func (h *RequestsHandler) CheckConnection(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	connected, err := h.apiClient.CheckConnection(c.Request.Context(), token, c.Param("userId"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": connected})
}
