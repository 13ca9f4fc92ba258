package client

import (
	"context"
	"errors"
	"strings"

	"venuectl/internal/api"
)

// ListTags returns all controller tags.
func (c *Client) ListTags(ctx context.Context) ([]api.Tag, error) {
	var payload api.TagListResponse
	if err := c.get(ctx, apiPrefix+"/settings/tags", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tags, nil
}

// CreateTag registers a new tag.
func (c *Client) CreateTag(ctx context.Context, tag api.Tag) (*api.Tag, error) {
	if strings.TrimSpace(tag.Name) == "" {
		return nil, errors.New("tag name required")
	}
	var payload api.Tag
	if err := c.post(ctx, apiPrefix+"/settings/tags", tag, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateTag patches an existing tag.
func (c *Client) UpdateTag(ctx context.Context, id string, tag api.Tag) (*api.Tag, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("tag id required")
	}
	var payload api.Tag
	if err := c.patch(ctx, apiPrefix+"/settings/tags/"+id, tag, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteTag removes a tag.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("tag id required")
	}
	return c.delete(ctx, apiPrefix+"/settings/tags/"+id)
}

// AppSettings fetches the backend's application settings document.
func (c *Client) AppSettings(ctx context.Context) (*api.AppSettings, error) {
	var payload api.AppSettings
	if err := c.get(ctx, apiPrefix+"/settings/app", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateAppSettings replaces the application settings document.
func (c *Client) UpdateAppSettings(ctx context.Context, settings api.AppSettings) (*api.AppSettings, error) {
	var payload api.AppSettings
	if err := c.put(ctx, apiPrefix+"/settings/app", settings, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
