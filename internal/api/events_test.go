package api

import (
	"encoding/json"
	"testing"
)

func TestProgressPercentCoercion(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    int
	}{
		{"integer", `{"type":"progress","hostname":"h1","progress":42}`, 42},
		{"float truncates", `{"type":"progress","hostname":"h1","progress":99.7}`, 99},
		{"over hundred kept", `{"type":"progress","hostname":"h1","progress":150}`, 150},
		{"quoted number", `{"type":"progress","hostname":"h1","progress":"25"}`, 25},
		{"non numeric string", `{"type":"progress","hostname":"h1","progress":"garbage"}`, 0},
		{"null", `{"type":"progress","hostname":"h1","progress":null}`, 0},
		{"object", `{"type":"progress","hostname":"h1","progress":{"pct":5}}`, 0},
		{"absent", `{"type":"progress","hostname":"h1"}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var event StreamEvent
			if err := json.Unmarshal([]byte(tc.payload), &event); err != nil {
				t.Fatalf("event must decode even with a bad progress value: %v", err)
			}
			if got := event.ProgressPercent(); got != tc.want {
				t.Fatalf("ProgressPercent() = %d, want %d", got, tc.want)
			}
		})
	}
}
