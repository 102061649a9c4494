package api

import (
	"context"
	"net/http"

	"github.com/learncrew/learncrew-agent/internal/models"
)

// Login exchanges credentials for a full user object including the bearer token
func (c *Client) Login(ctx context.Context, credentials *models.LoginCredentials) (*models.Session, error) {
	var session models.Session
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", credentials, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Register creates a new account and returns the full user object including the bearer token
func (c *Client) Register(ctx context.Context, form *models.RegisterForm) (*models.Session, error) {
	var session models.Session
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", "", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
