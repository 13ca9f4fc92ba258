package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"venuectl/internal/api"
)

// OpenCompileStream starts a firmware compile for the requested targets and
// returns the raw event stream. The caller owns the returned body and must
// close it; cancellation happens through ctx.
func (c *Client) OpenCompileStream(ctx context.Context, req api.CompileRequest) (io.ReadCloser, error) {
	return c.openStream(ctx, apiPrefix+"/templates/compile-stream", req)
}

// OpenOTAStream starts an OTA flash for the requested targets and returns
// the raw event stream.
func (c *Client) OpenOTAStream(ctx context.Context, req api.OTARequest) (io.ReadCloser, error) {
	return c.openStream(ctx, apiPrefix+"/templates/ota-stream", req)
}

func (c *Client) openStream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode stream request: %w", err)
	}
	resp, err := c.send(ctx, c.streaming, http.MethodPost, path, nil, payload, "application/json", true)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		return nil, c.statusError(http.MethodPost, path, resp)
	}
	if resp.Body == nil {
		return nil, fmt.Errorf("%w: %s: response has no body", ErrTransient, path)
	}
	return resp.Body, nil
}
