// Package schedule validates cron expressions before they are sent to the
// backend and previews upcoming run times for operator confirmation.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks a standard 5-field cron expression (descriptors such as
// @daily are accepted too). The backend runs its own executor; this catches
// typos before they are persisted.
func Validate(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return fmt.Errorf("cron expression is empty")
	}
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// NextRuns returns the next count run times for the expression, starting
// after from.
func NextRuns(expr string, from time.Time, count int) ([]time.Time, error) {
	sched, err := cron.ParseStandard(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	runs := make([]time.Time, 0, count)
	next := from
	for i := 0; i < count; i++ {
		next = sched.Next(next)
		if next.IsZero() {
			break
		}
		runs = append(runs, next)
	}
	return runs, nil
}
