package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"venuectl/internal/api"
	"venuectl/internal/logging"
	"venuectl/internal/sse"
)

// Status describes the lifecycle of a deployment stream.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
)

// ErrNoTargets is returned by Start when the target list is empty.
var ErrNoTargets = errors.New("no deployment targets")

// StreamFunc opens the event stream for one deployment run. The consumer
// closes the returned body when the run ends or is aborted.
type StreamFunc func(ctx context.Context) (io.ReadCloser, error)

// Result records the terminal outcome reported for a single target.
type Result struct {
	Success bool
	Message string
}

// Snapshot is a consistent copy of the consumer's state.
type Snapshot struct {
	Status   Status
	Targets  []string
	Logs     []string
	Progress map[string]int
	Results  map[string]Result
	Err      string
}

// LogFunc receives each appended log line as it arrives, for live rendering.
type LogFunc func(line string)

// Consumer drives one deployment stream at a time. Starting a new run aborts
// any run still in flight.
type Consumer struct {
	logger *slog.Logger
	sink   LogFunc

	mu         sync.Mutex
	generation int
	status     Status
	targets    []string
	targetSet  map[string]struct{}
	logs       []string
	progress   map[string]int
	results    map[string]Result
	errMsg     string
	cancel     context.CancelFunc
	done       chan struct{}
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "deploy")
		}
	}
}

// WithSink registers a callback invoked for every appended log line. The
// callback runs outside the consumer's lock and must not block for long.
func WithSink(sink LogFunc) Option {
	return func(c *Consumer) { c.sink = sink }
}

// NewConsumer constructs an idle consumer.
func NewConsumer(opts ...Option) *Consumer {
	c := &Consumer{
		logger:   logging.NewNop(),
		status:   StatusIdle,
		progress: map[string]int{},
		results:  map[string]Result{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins consuming a new deployment stream for the given targets.
// Any in-flight run is aborted first and loses the right to mutate state.
// Start returns once the stream goroutine is launched; use Done to wait.
func (c *Consumer) Start(ctx context.Context, targets []string, open StreamFunc) error {
	if len(targets) == 0 {
		return ErrNoTargets
	}
	if open == nil {
		return errors.New("nil stream opener")
	}

	runCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation
	c.status = StatusRunning
	c.targets = append([]string(nil), targets...)
	c.logs = nil
	c.errMsg = ""
	c.targetSet = make(map[string]struct{}, len(targets))
	c.progress = make(map[string]int, len(targets))
	for _, t := range targets {
		c.targetSet[t] = struct{}{}
		c.progress[t] = 0
	}
	c.results = make(map[string]Result, len(targets))
	c.cancel = cancel
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	c.logger.Info("deployment started", logging.Int("targets", len(targets)))
	go func() {
		// Releases the watchdog goroutine once the run ends on its own.
		defer cancel()
		c.run(runCtx, gen, open, done)
	}()
	return nil
}

// Cancel aborts the in-flight run, if any. Idempotent; the status moves to
// cancelled immediately and the stream goroutine is unblocked shortly after.
func (c *Consumer) Cancel() {
	c.mu.Lock()
	if c.status != StatusRunning {
		c.mu.Unlock()
		return
	}
	c.status = StatusCancelled
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
	c.logger.Info("deployment cancelled")
}

// Reset returns the consumer to idle with empty state. A running stream is
// aborted first.
func (c *Consumer) Reset() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	c.status = StatusIdle
	c.targets = nil
	c.targetSet = nil
	c.logs = nil
	c.errMsg = ""
	c.progress = map[string]int{}
	c.results = map[string]Result{}
	c.mu.Unlock()
}

// Done returns a channel closed when the current run's stream goroutine
// finishes. Before the first Start it returns an already-closed channel.
func (c *Consumer) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.done
}

// Snapshot returns a consistent copy of the consumer state.
func (c *Consumer) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Status:   c.status,
		Targets:  append([]string(nil), c.targets...),
		Logs:     append([]string(nil), c.logs...),
		Progress: make(map[string]int, len(c.progress)),
		Results:  make(map[string]Result, len(c.results)),
		Err:      c.errMsg,
	}
	for k, v := range c.progress {
		snap.Progress[k] = v
	}
	for k, v := range c.results {
		snap.Results[k] = v
	}
	return snap
}

func (c *Consumer) run(ctx context.Context, gen int, open StreamFunc, done chan struct{}) {
	defer close(done)

	body, err := open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			c.finishCancelled(gen)
			return
		}
		c.appendLog(gen, fmt.Sprintf("Deployment request failed: %v", err))
		c.finishError(gen, err.Error())
		return
	}
	defer body.Close()

	// Unblock a pending read when the run is aborted. The HTTP transport
	// does this on its own for request-scoped contexts, but the opener is
	// not required to be HTTP-backed.
	go func() {
		<-ctx.Done()
		_ = body.Close()
	}()

	reader := sse.NewReader(body)
	for {
		payload, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				c.finishCancelled(gen)
				return
			}
			c.appendLog(gen, fmt.Sprintf("Stream read failed: %v", err))
			c.finishError(gen, err.Error())
			return
		}

		var event api.StreamEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			c.logger.Debug("skipping malformed stream event", logging.Error(err))
			continue
		}
		c.handleEvent(gen, event)
	}

	if ctx.Err() != nil {
		c.finishCancelled(gen)
		return
	}
	c.resolve(gen)
}

func (c *Consumer) handleEvent(gen int, event api.StreamEvent) {
	switch event.Type {
	case api.EventStart:
		if event.Message != "" {
			c.appendLog(gen, event.Message)
		}
	case api.EventLog:
		c.appendLog(gen, formatLine(event.Hostname, event.Message))
	case api.EventProgress:
		c.mu.Lock()
		if gen == c.generation && c.isTargetLocked(event.Hostname) {
			c.progress[event.Hostname] = event.ProgressPercent()
		}
		c.mu.Unlock()
	case api.EventKeepalive:
		// Connection liveness only.
	case api.EventDeviceComplete:
		result := Result{Success: event.Success, Message: event.Message}
		if !event.Success && event.Error != "" {
			result.Message = event.Error
		}
		c.mu.Lock()
		known := gen == c.generation && c.isTargetLocked(event.Hostname)
		if known {
			c.results[event.Hostname] = result
		}
		c.mu.Unlock()
		if !known {
			c.logger.Debug("ignoring completion for unrequested target", logging.Hostname(event.Hostname))
			return
		}
		if result.Success {
			c.appendLog(gen, fmt.Sprintf("[%s] completed successfully", event.Hostname))
		} else {
			c.appendLog(gen, fmt.Sprintf("[%s] failed: %s", event.Hostname, result.Message))
		}
	case api.EventError:
		message := event.Error
		if message == "" {
			message = event.Message
		}
		if event.Hostname != "" {
			c.mu.Lock()
			known := gen == c.generation && c.isTargetLocked(event.Hostname)
			if known {
				c.results[event.Hostname] = Result{Success: false, Message: message}
			}
			c.mu.Unlock()
			if known {
				c.appendLog(gen, formatLine(event.Hostname, message))
			}
			return
		}
		// An operation-level error is fatal for the whole run, so the
		// status flips right away rather than waiting for end of stream.
		c.mu.Lock()
		if gen == c.generation && c.status == StatusRunning {
			c.status = StatusError
			c.errMsg = message
		}
		c.mu.Unlock()
		c.appendLog(gen, message)
	default:
		// Unknown event types are ignored by contract.
	}
}

// resolve determines the terminal status after a clean end of stream:
// success when every requested target reported a successful result, error
// when any target failed, and error with an "ended unexpectedly" message
// when terminal events are missing. A run already moved to error by a
// fatal stream event, or to cancelled, keeps that status.
func (c *Consumer) resolve(gen int) {
	c.mu.Lock()
	if gen != c.generation || c.status != StatusRunning {
		c.mu.Unlock()
		return
	}

	complete := true
	failed := 0
	for _, target := range c.targets {
		result, ok := c.results[target]
		if !ok {
			complete = false
			continue
		}
		if !result.Success {
			failed++
		}
	}

	switch {
	case complete && failed == 0:
		c.status = StatusSuccess
	case failed > 0:
		c.status = StatusError
		c.errMsg = fmt.Sprintf("%d target(s) failed", failed)
	default:
		c.status = StatusError
		c.errMsg = "stream ended unexpectedly"
	}
	c.cancel = nil
	status := c.status
	errMsg := c.errMsg
	c.mu.Unlock()

	if status == StatusSuccess {
		c.logger.Info("deployment succeeded")
	} else {
		c.logger.Warn("deployment failed", logging.String("reason", errMsg))
	}
}

func (c *Consumer) finishError(gen int, message string) {
	c.mu.Lock()
	if gen == c.generation && c.status == StatusRunning {
		c.status = StatusError
		c.errMsg = message
		c.cancel = nil
	}
	c.mu.Unlock()
}

func (c *Consumer) finishCancelled(gen int) {
	c.mu.Lock()
	if gen == c.generation && c.status == StatusRunning {
		c.status = StatusCancelled
		c.cancel = nil
	}
	c.mu.Unlock()
}

func (c *Consumer) appendLog(gen int, line string) {
	if line == "" {
		return
	}
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.logs = append(c.logs, line)
	sink := c.sink
	c.mu.Unlock()
	if sink != nil {
		sink(line)
	}
}

// isTargetLocked reports whether hostname belongs to the current run's
// requested target set. Callers must hold c.mu. Events for other hostnames
// never touch progress or results, which keeps both maps keyed by requested
// targets only.
func (c *Consumer) isTargetLocked(hostname string) bool {
	_, ok := c.targetSet[hostname]
	return ok
}

func formatLine(hostname, message string) string {
	if hostname == "" {
		return message
	}
	return fmt.Sprintf("[%s] %s", hostname, message)
}
