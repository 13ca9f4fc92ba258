package client

import (
	"context"
	"errors"
	"strings"

	"venuectl/internal/api"
)

// ListControllers returns the managed controller inventory.
func (c *Client) ListControllers(ctx context.Context) ([]api.Controller, error) {
	var payload api.ControllerListResponse
	if err := c.get(ctx, apiPrefix+"/management/managed", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Controllers, nil
}

// GetController fetches one managed controller by hostname.
func (c *Client) GetController(ctx context.Context, hostname string) (*api.Controller, error) {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		return nil, errors.New("hostname required")
	}
	var payload api.Controller
	if err := c.get(ctx, apiPrefix+"/management/managed/"+hostname, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SaveController creates or updates a managed controller record.
func (c *Client) SaveController(ctx context.Context, controller api.Controller) (*api.Controller, error) {
	if strings.TrimSpace(controller.Hostname) == "" {
		return nil, errors.New("hostname required")
	}
	var payload api.Controller
	if err := c.put(ctx, apiPrefix+"/management/managed/"+controller.Hostname, controller, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteController removes a controller from management.
func (c *Client) DeleteController(ctx context.Context, hostname string) error {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		return errors.New("hostname required")
	}
	return c.delete(ctx, apiPrefix+"/management/managed/"+hostname)
}

// AvailableChannels lists channels ports can default to.
func (c *Client) AvailableChannels(ctx context.Context) ([]api.Channel, error) {
	var payload api.ChannelListResponse
	if err := c.get(ctx, apiPrefix+"/management/available-channels", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Channels, nil
}
