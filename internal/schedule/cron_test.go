package schedule

import (
	"testing"
	"time"
)

func TestValidateAcceptsStandardExpressions(t *testing.T) {
	for _, expr := range []string{"0 6 * * *", "*/5 * * * 1-5", "@daily", " 30 22 * * 0 "} {
		if err := Validate(expr); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", expr, err)
		}
	}
}

func TestValidateRejectsBadExpressions(t *testing.T) {
	for _, expr := range []string{"", "not cron", "61 * * * *", "* * * *", "0 6 * * * *"} {
		if err := Validate(expr); err == nil {
			t.Errorf("Validate(%q) = nil, want error", expr)
		}
	}
}

func TestNextRunsPreview(t *testing.T) {
	from := time.Date(2026, time.March, 1, 5, 0, 0, 0, time.UTC)
	runs, err := NextRuns("0 6 * * *", from, 3)
	if err != nil {
		t.Fatalf("next runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	want := time.Date(2026, time.March, 1, 6, 0, 0, 0, time.UTC)
	for i, run := range runs {
		if !run.Equal(want) {
			t.Fatalf("run %d = %v, want %v", i, run, want)
		}
		want = want.Add(24 * time.Hour)
	}
}
