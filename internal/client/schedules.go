package client

import (
	"context"
	"errors"
	"strings"

	"venuectl/internal/api"
)

// ListSchedules returns all backend schedules.
func (c *Client) ListSchedules(ctx context.Context) ([]api.Schedule, error) {
	var payload api.ScheduleListResponse
	if err := c.get(ctx, apiPrefix+"/schedules", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Schedules, nil
}

// CreateSchedule registers a new schedule with the backend executor.
func (c *Client) CreateSchedule(ctx context.Context, schedule api.Schedule) (*api.Schedule, error) {
	if strings.TrimSpace(schedule.Name) == "" {
		return nil, errors.New("schedule name required")
	}
	if strings.TrimSpace(schedule.CronExpr) == "" {
		return nil, errors.New("cron expression required")
	}
	var payload api.Schedule
	if err := c.post(ctx, apiPrefix+"/schedules", schedule, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateSchedule patches an existing schedule.
func (c *Client) UpdateSchedule(ctx context.Context, id string, schedule api.Schedule) (*api.Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("schedule id required")
	}
	var payload api.Schedule
	if err := c.patch(ctx, apiPrefix+"/schedules/"+id, schedule, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteSchedule removes a schedule.
func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("schedule id required")
	}
	return c.delete(ctx, apiPrefix+"/schedules/"+id)
}
