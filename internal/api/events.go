package api

import "encoding/json"

// Stream event type discriminators emitted by the compile and OTA endpoints.
// Unrecognized values must be ignored by consumers.
const (
	EventStart          = "start"
	EventLog            = "log"
	EventProgress       = "progress"
	EventKeepalive      = "keepalive"
	EventDeviceComplete = "device_complete"
	EventError          = "error"
)

// StreamEvent is one decoded record of a compile-stream or ota-stream
// response. Only the fields relevant to the event's Type are populated.
type StreamEvent struct {
	Type     string          `json:"type"`
	Hostname string          `json:"hostname,omitempty"`
	Message  string          `json:"message,omitempty"`
	Progress json.RawMessage `json:"progress,omitempty"`
	Success  bool            `json:"success,omitempty"`
	Error    string          `json:"error,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// ProgressPercent coerces the event's progress value to an integer. The
// field is kept raw so a backend sending a non-numeric value cannot fail
// the decode of the whole event; anything that is not a number, quoted or
// bare, coerces to 0. Out-of-range values are returned as-is because the
// backend contract does not promise clamping.
func (e StreamEvent) ProgressPercent() int {
	raw := e.Progress
	if len(raw) == 0 {
		return 0
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		var quoted string
		if err := json.Unmarshal(raw, &quoted); err != nil {
			return 0
		}
		num = json.Number(quoted)
	}
	if v, err := num.Int64(); err == nil {
		return int(v)
	}
	if f, err := num.Float64(); err == nil {
		return int(f)
	}
	return 0
}

// CompileRequest starts a firmware compile stream for the given targets.
type CompileRequest struct {
	Hostnames []string `json:"hostnames"`
	Template  string   `json:"template"`
	Defines   []string `json:"defines,omitempty"`
}

// OTARequest starts an OTA flash stream for the given targets.
type OTARequest struct {
	Hostnames  []string `json:"hostnames"`
	BinaryPath string   `json:"binaryPath"`
	Port       int      `json:"port,omitempty"`
	TimeoutSec int      `json:"timeoutSeconds,omitempty"`
}
