package client

import (
	"context"
	"errors"
	"strings"

	"venuectl/internal/api"
)

// ListUsers returns all operator accounts.
func (c *Client) ListUsers(ctx context.Context) ([]api.User, error) {
	var payload api.UserListResponse
	if err := c.get(ctx, apiPrefix+"/users", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Users, nil
}

// CreateUser registers a new operator account.
func (c *Client) CreateUser(ctx context.Context, user api.User, password string) (*api.User, error) {
	if strings.TrimSpace(user.Username) == "" {
		return nil, errors.New("username required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, errors.New("password required")
	}
	body := struct {
		api.User
		Password string `json:"password"`
	}{User: user, Password: password}
	var payload api.User
	if err := c.post(ctx, apiPrefix+"/users", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateUser patches an operator account.
func (c *Client) UpdateUser(ctx context.Context, id string, user api.User) (*api.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("user id required")
	}
	var payload api.User
	if err := c.patch(ctx, apiPrefix+"/users/"+id, user, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteUser removes an operator account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("user id required")
	}
	return c.delete(ctx, apiPrefix+"/users/"+id)
}

// ListRoles returns the permission roles known to the backend.
func (c *Client) ListRoles(ctx context.Context) ([]api.Role, error) {
	var payload api.RoleListResponse
	if err := c.get(ctx, apiPrefix+"/users/roles", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Roles, nil
}

// SaveRole creates or replaces a permission role.
func (c *Client) SaveRole(ctx context.Context, role api.Role) (*api.Role, error) {
	if strings.TrimSpace(role.Name) == "" {
		return nil, errors.New("role name required")
	}
	var payload api.Role
	if err := c.put(ctx, apiPrefix+"/users/roles/"+role.Name, role, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteRole removes a permission role.
func (c *Client) DeleteRole(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("role name required")
	}
	return c.delete(ctx, apiPrefix+"/users/roles/"+name)
}
