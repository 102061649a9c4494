package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/learncrew/learncrew-agent/internal/session"
)

// AuthHandler exposes the session lifecycle over the local API
type AuthHandler struct {
	store *session.Store
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(store *session.Store) *AuthHandler {
	return &AuthHandler{
		store: store,
	}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials models.LoginCredentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid login payload", ParseValidationErrors(err), err)
		return
	}

	if !h.store.Login(c.Request.Context(), &credentials) {
		respondError(c, http.StatusUnauthorized, "Login failed", nil)
		return
	}

	c.JSON(http.StatusOK, h.store.Current())
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var form models.RegisterForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid registration payload", ParseValidationErrors(err), err)
		return
	}

	if !h.store.Register(c.Request.Context(), &form) {
		respondError(c, http.StatusBadRequest, "Registration failed", nil)
		return
	}

	c.JSON(http.StatusCreated, h.store.Current())
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.store.Logout()
	c.Status(http.StatusNoContent)
}

// Session handles GET /api/v1/auth/session
// Reports the current session, or null when anonymous, plus whether the
// initial hydration has finished.
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"loading":       h.store.Loading(),
		"authenticated": h.store.IsAuthenticated(),
		"session":       h.store.Current(),
	})
}
