package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learncrew/learncrew-agent/internal/api"
	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/learncrew/learncrew-agent/internal/session"
	"github.com/learncrew/learncrew-agent/pkg/logger"
	"go.uber.org/zap"
)

// ResourcesHandler exposes the resource hub: threads, posts, votes,
// moderation, instructions, and the star paywall. A purchase changes the
// star balance, so the fresh profile is pushed back into the session
// store afterwards.
type ResourcesHandler struct {
	apiClient *api.Client
	store     *session.Store
}

// NewResourcesHandler creates a new ResourcesHandler
func NewResourcesHandler(apiClient *api.Client, store *session.Store) *ResourcesHandler {
	return &ResourcesHandler{
		apiClient: apiClient,
		store:     store,
	}
}

func (h *ResourcesHandler) token(c *gin.Context) (string, bool) {
	token, err := h.store.Token()
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not logged in", err)
		return "", false
	}
	return token, true
}

// ListThreads handles GET /api/v1/resources/threads
func (h *ResourcesHandler) ListThreads(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	threads, err := h.apiClient.ListThreads(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, threads)
}

// CreateThread handles POST /api/v1/resources/threads (multipart)
func (h *ResourcesHandler) CreateThread(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	var payload models.CreateThreadPayload
	if err := c.ShouldBind(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid thread payload", ParseValidationErrors(err), err)
		return
	}

	attachments, err := readAttachments(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Could not read attachments", err)
		return
	}

	thread, err := h.apiClient.CreateThread(c.Request.Context(), token, &payload, attachments)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, thread)
}

// GetThread handles GET /api/v1/resources/threads/:id
func (h *ResourcesHandler) GetThread(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	thread, err := h.apiClient.GetThread(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

// AddPost handles POST /api/v1/resources/threads/:id/posts (multipart)
func (h *ResourcesHandler) AddPost(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	var payload models.CreatePostPayload
	if err := c.ShouldBind(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid post payload", ParseValidationErrors(err), err)
		return
	}

	attachments, err := readAttachments(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Could not read attachments", err)
		return
	}

	post, err := h.apiClient.AddPost(c.Request.Context(), token, c.Param("id"), &payload, attachments)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ToggleUpvote handles POST /api/v1/resources/threads/:id/upvote
func (h *ResourcesHandler) ToggleUpvote(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	thread, err := h.apiClient.ToggleUpvote(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

// ToggleGuideVote handles POST /api/v1/resources/threads/:id/guide-vote
func (h *ResourcesHandler) ToggleGuideVote(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	thread, err := h.apiClient.ToggleGuideVote(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

// UpdateThread handles PUT /api/v1/resources/threads/:id
func (h *ResourcesHandler) UpdateThread(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	var payload models.UpdateThreadPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid thread payload", ParseValidationErrors(err), err)
		return
	}

	thread, err := h.apiClient.UpdateThread(c.Request.Context(), token, c.Param("id"), &payload)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

// DeleteThread handles DELETE /api/v1/resources/threads/:id
func (h *ResourcesHandler) DeleteThread(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	if err := h.apiClient.DeleteThread(c.Request.Context(), token, c.Param("id")); err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddModerator handles POST /api/v1/resources/threads/:id/moderators
func (h *ResourcesHandler) AddModerator(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	var payload struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid moderator payload", ParseValidationErrors(err), err)
		return
	}

	if err := h.apiClient.AddModerator(c.Request.Context(), token, c.Param("id"), payload.UserID); err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RemoveModerator handles DELETE /api/v1/resources/threads/:id/moderators/:userId
func (h *ResourcesHandler) RemoveModerator(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	if err := h.apiClient.RemoveModerator(c.Request.Context(), token, c.Param("id"), c.Param("userId")); err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AcknowledgeInstructions handles POST /api/v1/resources/threads/:id/instructions/ack
func (h *ResourcesHandler) AcknowledgeInstructions(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	if err := h.apiClient.AcknowledgeInstructions(c.Request.Context(), token, c.Param("id")); err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UpdateInstructions handles PUT /api/v1/resources/threads/:id/instructions
func (h *ResourcesHandler) UpdateInstructions(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	var payload models.InstructionsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid instructions payload", ParseValidationErrors(err), err)
		return
	}

	if err := h.apiClient.UpdateInstructions(c.Request.Context(), token, c.Param("id"), &payload); err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Purchase handles POST /api/v1/resources/threads/:id/purchase
func (h *ResourcesHandler) Purchase(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	thread, err := h.apiClient.PurchaseThread(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	h.refreshProfile(c, token)
	c.JSON(http.StatusOK, thread)
}

// UpdatePrice handles PUT /api/v1/resources/threads/:id/price
func (h *ResourcesHandler) UpdatePrice(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	var payload models.UpdatePricePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid price payload", ParseValidationErrors(err), err)
		return
	}

	thread, err := h.apiClient.UpdatePrice(c.Request.Context(), token, c.Param("id"), &payload)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

// refreshProfile pulls the caller's profile after a balance change and
// pushes it into the session store. Best effort: the purchase already
// succeeded, a stale balance corrects itself on the next refresh.
func (h *ResourcesHandler) refreshProfile(c *gin.Context, token string) {
	current := h.store.Current()
	if current == nil {
		return
	}

	user, err := h.apiClient.GetUser(c.Request.Context(), token, current.ID)
	if err != nil {
		logger.Debug("Profile refresh after purchase failed", zap.Error(err))
		return
	}
	h.store.RefreshFromProfile(user)
}

// readAttachments buffers uploaded files from the multipart form. The
// body size limit middleware already bounds the total payload.
func readAttachments(c *gin.Context) ([]api.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, err
	}

	headers := form.File["attachments"]
	files := make([]api.File, 0, len(headers))
	for _, header := range headers {
		contents, err := readFile(header)
		if err != nil {
			return nil, err
		}
		files = append(files, api.File{
			Field:    "attachments",
			Name:     header.Filename,
			Contents: bytes.NewReader(contents),
		})
	}
	return files, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
