package watch

import (
	"context"
	"log/slog"
	"time"

	"venuectl/internal/api"
	"venuectl/internal/logging"
)

const defaultPollInterval = 3 * time.Second

// Fetcher is the subset of the API client the poller needs.
type Fetcher interface {
	ListControllers(ctx context.Context) ([]api.Controller, error)
	QueueMetrics(ctx context.Context) (*api.QueueMetrics, error)
	PortStatus(ctx context.Context, hostname string) (*api.PortStatusResponse, error)
}

// Options configures a polling loop.
type Options struct {
	Interval time.Duration
	// Hostname selects a controller whose port status is fetched alongside
	// the fleet data. Empty skips port polling.
	Hostname string
	Logger   *slog.Logger
}

// Start launches a background goroutine that refreshes the store at a fixed
// cadence until the context is cancelled. It returns immediately.
func Start(ctx context.Context, store *Store, fetcher Fetcher, opts Options) {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "watch")
	store.SetPortHostname(opts.Hostname)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			Refresh(ctx, store, fetcher, opts.Hostname, logger)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Refresh performs one polling pass and records the outcome in the store.
func Refresh(ctx context.Context, store *Store, fetcher Fetcher, hostname string, logger *slog.Logger) {
	if logger == nil {
		logger = logging.NewNop()
	}

	controllers, err := fetcher.ListControllers(ctx)
	if err != nil {
		store.Update(nil, nil, nil, err)
		logger.Debug("controller poll failed", logging.Error(err))
		return
	}
	metrics, err := fetcher.QueueMetrics(ctx)
	if err != nil {
		store.Update(nil, nil, nil, err)
		logger.Debug("queue metrics poll failed", logging.Error(err))
		return
	}

	var ports []api.PortStatus
	if hostname != "" {
		status, err := fetcher.PortStatus(ctx, hostname)
		if err != nil {
			store.Update(nil, nil, nil, err)
			logger.Debug("port status poll failed", logging.Hostname(hostname), logging.Error(err))
			return
		}
		ports = status.Ports
	}

	store.Update(controllers, metrics, ports, nil)
}
