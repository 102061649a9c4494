package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/learncrew/learncrew-agent/internal/models"
)

// ListUsers lists users matching the given filter
func (c *Client) ListUsers(ctx context.Context, token string, filter models.UserFilter) ([]models.User, error) {
	query := url.Values{}
	if filter.Role != "" {
		query.Set("role", string(filter.Role))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.LookingForPartner {
		query.Set("lookingForPartner", "true")
	}
	if filter.LookingForMentee {
		query.Set("lookingForMentee", "true")
	}

	path := "/users"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var users []models.User
	if err := c.do(ctx, "listUsers", http.MethodGet, path, token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a user profile by id
func (c *Client) GetUser(ctx context.Context, token, id string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "getUser", http.MethodGet, "/users/"+url.PathEscape(id), token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername fetches a user profile by username
func (c *Client) GetUserByUsername(ctx context.Context, token, username string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "getUserByUsername", http.MethodGet, "/users/username/"+url.PathEscape(username), token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the caller's own profile and returns the fresh copy
func (c *Client) UpdateProfile(ctx context.Context, token string, payload *models.UpdateProfilePayload) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "updateProfile", http.MethodPut, "/users/me", token, payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// TopUp adds stars to the caller's balance and returns the fresh profile
func (c *Client) TopUp(ctx context.Context, token string, payload *models.TopUpPayload) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "topUp", http.MethodPost, "/users/me/topup", token, payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
