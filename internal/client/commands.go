package client

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"venuectl/internal/api"
)

// PortStatus polls the live port state of one controller.
func (c *Client) PortStatus(ctx context.Context, hostname string) (*api.PortStatusResponse, error) {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		return nil, errors.New("hostname required")
	}
	var payload api.PortStatusResponse
	if err := c.get(ctx, apiPrefix+"/commands/"+hostname+"/port-status", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DispatchBulk submits a command batch. The backend assigns the batch id;
// the client stamps a correlation id when the caller left it empty so the
// batch can be traced through backend logs.
func (c *Client) DispatchBulk(ctx context.Context, req api.BulkCommandRequest) (*api.BulkCommandResponse, error) {
	if len(req.Commands) == 0 {
		return nil, errors.New("no commands to dispatch")
	}
	for _, cmd := range req.Commands {
		if strings.TrimSpace(cmd.Hostname) == "" {
			return nil, errors.New("command missing hostname")
		}
		if strings.TrimSpace(cmd.Command) == "" {
			return nil, errors.New("command missing command name")
		}
	}
	if req.CorrelationID == "" {
		req.CorrelationID = uuid.New().String()
	}
	var payload api.BulkCommandResponse
	if err := c.post(ctx, apiPrefix+"/commands/bulk", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// QueueMetrics reads command queue counters.
func (c *Client) QueueMetrics(ctx context.Context) (*api.QueueMetrics, error) {
	var payload api.QueueMetrics
	if err := c.get(ctx, apiPrefix+"/commands/queue/metrics", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// QueueAll lists every queued command.
func (c *Client) QueueAll(ctx context.Context) ([]api.QueuedCommand, error) {
	var payload api.QueueListResponse
	if err := c.get(ctx, apiPrefix+"/commands/queue/all", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Commands, nil
}
