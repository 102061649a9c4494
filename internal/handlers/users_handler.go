package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learncrew/learncrew-agent/internal/api"
	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/learncrew/learncrew-agent/internal/session"
)

// UsersHandler exposes user directory and own-profile operations.
// Profile mutations that change the star balance push the fresh server
// copy back into the session store, so every subscriber sees the new
// balance at once.
type UsersHandler struct {
	apiClient *api.Client
	store     *session.Store
}

// NewUsersHandler creates a new UsersHandler
func NewUsersHandler(apiClient *api.Client, store *session.Store) *UsersHandler {
	return &UsersHandler{
		apiClient: apiClient,
		store:     store,
	}
}

func (h *UsersHandler) token(c *gin.Context) (string, bool) {
	token, err := h.store.Token()
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not logged in", err)
		return "", false
	}
	return token, true
}

// List handles GET /api/v1/users
func (h *UsersHandler) List(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	filter := models.UserFilter{
		Role:              models.Role(c.Query("role")),
		Search:            c.Query("search"),
		LookingForPartner: c.Query("lookingForPartner") == "true",
		LookingForMentee:  c.Query("lookingForMentee") == "true",
	}

	users, err := h.apiClient.ListUsers(c.Request.Context(), token, filter)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// Get handles GET /api/v1/users/:id
func (h *UsersHandler) Get(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	user, err := h.apiClient.GetUser(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetByUsername handles GET /api/v1/users/username/:username
func (h *UsersHandler) GetByUsername(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	user, err := h.apiClient.GetUserByUsername(c.Request.Context(), token, c.Param("username"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/v1/users/me
func (h *UsersHandler) UpdateProfile(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	var payload models.UpdateProfilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid profile payload", ParseValidationErrors(err), err)
		return
	}

	user, err := h.apiClient.UpdateProfile(c.Request.Context(), token, &payload)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	h.store.RefreshFromProfile(user)
	c.JSON(http.StatusOK, user)
}

// TopUp handles POST /api/v1/users/me/topup
func (h *UsersHandler) TopUp(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	var payload models.TopUpPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid top-up payload", ParseValidationErrors(err), err)
		return
	}

	user, err := h.apiClient.TopUp(c.Request.Context(), token, &payload)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	h.store.RefreshFromProfile(user)
	c.JSON(http.StatusOK, user)
}
