package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/learncrew/learncrew-agent/internal/models"
)

// ListThreads lists resource hub threads
func (c *Client) ListThreads(ctx context.Context, token string) ([]models.Thread, error) {
	var threads []models.Thread
	if err := c.do(ctx, "listThreads", http.MethodGet, "/resources/threads", token, nil, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// CreateThread creates a thread, with optional file attachments (multipart)
func (c *Client) CreateThread(ctx context.Context, token string, payload *models.CreateThreadPayload, attachments []File) (*models.Thread, error) {
	fields := map[string]string{
		"title": payload.Title,
		"body":  payload.Body,
		"price": strconv.Itoa(payload.Price),
	}

	var thread models.Thread
	if err := c.doMultipart(ctx, "createThread", "/resources/threads", token, fields, attachments, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// GetThread fetches a thread with its posts
func (c *Client) GetThread(ctx context.Context, token, threadID string) (*models.Thread, error) {
	var thread models.Thread
	if err := c.do(ctx, "getThread", http.MethodGet, "/resources/threads/"+url.PathEscape(threadID), token, nil, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// AddPost adds a reply to a thread, with optional file attachments (multipart)
func (c *Client) AddPost(ctx context.Context, token, threadID string, payload *models.CreatePostPayload, attachments []File) (*models.Post, error) {
	fields := map[string]string{
		"body": payload.Body,
	}

	var post models.Post
	if err := c.doMultipart(ctx, "addPost", "/resources/threads/"+url.PathEscape(threadID)+"/posts", token, fields, attachments, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ToggleUpvote toggles the caller's upvote on a thread
func (c *Client) ToggleUpvote(ctx context.Context, token, threadID string) (*models.Thread, error) {
	var thread models.Thread
	if err := c.do(ctx, "toggleUpvote", http.MethodPost, "/resources/threads/"+url.PathEscape(threadID)+"/upvote", token, nil, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// UpdateThread updates a thread's title and body
func (c *Client) UpdateThread(ctx context.Context, token, threadID string, payload *models.UpdateThreadPayload) (*models.Thread, error) {
	var thread models.Thread
	if err := c.do(ctx, "updateThread", http.MethodPut, "/resources/threads/"+url.PathEscape(threadID), token, payload, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// DeleteThread deletes a thread
func (c *Client) DeleteThread(ctx context.Context, token, threadID string) error {
	return c.do(ctx, "deleteThread", http.MethodDelete, "/resources/threads/"+url.PathEscape(threadID), token, nil, nil)
}

// AddModerator adds a moderator to a thread
func (c *Client) AddModerator(ctx context.Context, token, threadID, userID string) error {
	payload := map[string]string{"userId": userID}
	return c.do(ctx, "addModerator", http.MethodPost, "/resources/threads/"+url.PathEscape(threadID)+"/moderators", token, payload, nil)
}

// RemoveModerator removes a moderator from a thread
func (c *Client) RemoveModerator(ctx context.Context, token, threadID, userID string) error {
	return c.do(ctx, "removeModerator", http.MethodDelete, "/resources/threads/"+url.PathEscape(threadID)+"/moderators/"+url.PathEscape(userID), token, nil, nil)
}

// ToggleGuideVote toggles the caller's guide-vote on a thread
func (c *Client) ToggleGuideVote(ctx context.Context, token, threadID string) (*models.Thread, error) {
	var thread models.Thread
	if err := c.do(ctx, "toggleGuideVote", http.MethodPost, "/resources/threads/"+url.PathEscape(threadID)+"/guide-vote", token, nil, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// AcknowledgeInstructions acknowledges a thread's instructions
func (c *Client) AcknowledgeInstructions(ctx context.Context, token, threadID string) error {
	return c.do(ctx, "acknowledgeInstructions", http.MethodPost, "/resources/threads/"+url.PathEscape(threadID)+"/instructions/ack", token, nil, nil)
}

// UpdateInstructions updates a thread's instructions
func (c *Client) UpdateInstructions(ctx context.Context, token, threadID string, payload *models.InstructionsPayload) error {
	return c.do(ctx, "updateInstructions", http.MethodPut, "/resources/threads/"+url.PathEscape(threadID)+"/instructions", token, payload, nil)
}

// PurchaseThread unlocks a paywalled thread, deducting from the star balance
func (c *Client) PurchaseThread(ctx context.Context, token, threadID string) (*models.Thread, error) {
	var thread models.Thread
	if err := c.do(ctx, "purchaseThread", http.MethodPost, "/resources/threads/"+url.PathEscape(threadID)+"/purchase", token, nil, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// UpdatePrice updates a thread's paywall price
func (c *Client) UpdatePrice(ctx context.Context, token, threadID string, payload *models.UpdatePricePayload) (*models.Thread, error) {
	var thread models.Thread
	if err := c.do(ctx, "updatePrice", http.MethodPut, "/resources/threads/"+url.PathEscape(threadID)+"/price", token, payload, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}
