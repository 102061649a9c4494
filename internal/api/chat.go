package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/learncrew/learncrew-agent/internal/models"
)

// Conversations lists the caller's recent conversations
func (c *Client) Conversations(ctx context.Context, token string) ([]models.ChatThread, error) {
	var threads []models.ChatThread
	if err := c.do(ctx, "conversations", http.MethodGet, "/chat/conversations", token, nil, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// History fetches the message history with another user, in ascending
// creation-time order as returned by the server
func (c *Client) History(ctx context.Context, token, otherUserID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	if err := c.do(ctx, "chatHistory", http.MethodGet, "/chat/messages/"+url.PathEscape(otherUserID), token, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage sends a message and returns the acknowledged copy
func (c *Client) SendMessage(ctx context.Context, token string, payload *models.SendMessagePayload) (*models.ChatMessage, error) {
	var message models.ChatMessage
	if err := c.do(ctx, "sendMessage", http.MethodPost, "/chat/messages", token, payload, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// UnreadCount fetches the number of unread chat messages (badge count)
func (c *Client) UnreadCount(ctx context.Context, token string) (int, error) {
	var result models.UnreadCountResponse
	if err := c.do(ctx, "unreadCount", http.MethodGet, "/chat/unread/count", token, nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}
