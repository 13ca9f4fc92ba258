package client

import (
	"context"
	"errors"
	"strings"

	"venuectl/internal/api"
)

// Login exchanges credentials for a token pair. The caller is responsible
// for persisting the pair through the auth manager.
func (c *Client) Login(ctx context.Context, username, password string) (*api.TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username required")
	}
	if password == "" {
		return nil, errors.New("password required")
	}
	var payload api.TokenPair
	if err := c.post(ctx, apiPrefix+"/auth/login", api.LoginRequest{Username: username, Password: password}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Logout invalidates the current session server-side. A missing session is
// not an error; local state is cleared by the caller regardless.
func (c *Client) Logout(ctx context.Context) error {
	err := c.post(ctx, apiPrefix+"/auth/logout", nil, nil)
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	return err
}

// WhoAmI reports the account behind the current session.
func (c *Client) WhoAmI(ctx context.Context) (*api.User, error) {
	var payload api.User
	if err := c.get(ctx, apiPrefix+"/auth/me", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
