package client

import (
	"context"
	"errors"
	"strings"

	"venuectl/internal/api"
)

// ListLibraries returns the catalogued IR command libraries.
func (c *Client) ListLibraries(ctx context.Context) ([]api.Library, error) {
	var payload api.LibraryListResponse
	if err := c.get(ctx, apiPrefix+"/libraries", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Libraries, nil
}

// GetLibrary fetches one IR library by brand identifier.
func (c *Client) GetLibrary(ctx context.Context, brand string) (*api.Library, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, errors.New("brand required")
	}
	var payload api.Library
	if err := c.get(ctx, apiPrefix+"/libraries/"+brand, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
