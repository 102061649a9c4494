package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/learncrew/learncrew-agent/internal/models"
)

// CreateRequest sends a partner/mentorship request or posts a public pitch
func (c *Client) CreateRequest(ctx context.Context, token string, payload *models.CreateRequestPayload) (*models.InboxItem, error) {
	var item models.InboxItem
	if err := c.do(ctx, "createRequest", http.MethodPost, "/requests", token, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListReceived lists the caller's received requests and notifications
func (c *Client) ListReceived(ctx context.Context, token string) ([]models.InboxItem, error) {
	var items []models.InboxItem
	if err := c.do(ctx, "listReceived", http.MethodGet, "/requests/received", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListSent lists the caller's sent requests
func (c *Client) ListSent(ctx context.Context, token string) ([]models.InboxItem, error) {
	var items []models.InboxItem
	if err := c.do(ctx, "listSent", http.MethodGet, "/requests/sent", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListPublicPitches lists unclaimed public pitches
func (c *Client) ListPublicPitches(ctx context.Context, token string) ([]models.InboxItem, error) {
	var items []models.InboxItem
	if err := c.do(ctx, "listPublicPitches", http.MethodGet, "/requests/pitches", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ClaimPitch claims a public pitch for the caller
func (c *Client) ClaimPitch(ctx context.Context, token, pitchID string) (*models.InboxItem, error) {
	var item models.InboxItem
	if err := c.do(ctx, "claimPitch", http.MethodPost, "/requests/pitches/"+url.PathEscape(pitchID)+"/claim", token, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Respond accepts or rejects a pending request
func (c *Client) Respond(ctx context.Context, token, requestID string, status models.InboxStatus) error {
	payload := &models.RespondPayload{Status: status}
	return c.do(ctx, "respondRequest", http.MethodPut, "/requests/"+url.PathEscape(requestID)+"/respond", token, payload, nil)
}

// CancelRequest cancels a request the caller previously sent
func (c *Client) CancelRequest(ctx context.Context, token, requestID string) error {
	return c.do(ctx, "cancelRequest", http.MethodDelete, "/requests/"+url.PathEscape(requestID), token, nil, nil)
}

// EndRelationship ends an accepted mentorship/partnership
func (c *Client) EndRelationship(ctx context.Context, token, requestID string) error {
	return c.do(ctx, "endRelationship", http.MethodPut, "/requests/"+url.PathEscape(requestID)+"/end", token, nil, nil)
}

// MarkRead acknowledges a non-actionable inbox item
func (c *Client) MarkRead(ctx context.Context, token, itemID string) error {
	return c.do(ctx, "markRead", http.MethodPut, "/requests/"+url.PathEscape(itemID)+"/read", token, nil, nil)
}

// CheckConnection reports whether the caller already has an accepted
// relationship with the given user
func (c *Client) CheckConnection(ctx context.Context, token, userID string) (bool, error) {
	var result struct {
		Connected bool `json:"connected"`
	}
	if err := c.do(ctx, "checkConnection", http.MethodGet, "/requests/connection/"+url.PathEscape(userID), token, nil, &result); err != nil {
		return false, err
	}
	return result.Connected, nil
}

// PendingCount fetches the number of pending received requests (badge count)
func (c *Client) PendingCount(ctx context.Context, token string) (int, error) {
	var result models.PendingCountResponse
	if err := c.do(ctx, "pendingCount", http.MethodGet, "/requests/pending/count", token, nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}
