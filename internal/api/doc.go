// Package api defines wire-format types for the venue management backend's
// REST and streaming endpoints. Every type mirrors a JSON payload the backend
// produces or accepts; nothing here carries client-side behavior.
//
// # Key Types
//
// Controller/Port: managed IR-blaster inventory as returned by the
// management endpoints, including per-port appliance assignments.
//
// PortStatus/QueueMetrics: polling payloads for live views.
//
// BulkCommandRequest/BulkCommandResponse: batch dispatch contract; the
// backend assigns the batch identifier.
//
// StreamEvent: one record of a compile-stream or ota-stream response,
// discriminated by Type.
//
// # Design Notes
//
// DTOs use camelCase JSON tags to match the backend's JavaScript-facing
// contract. Timestamps are RFC3339 strings passed through unmodified; the
// backend owns their semantics. Unknown fields are ignored on decode so the
// client stays forward-compatible with backend additions.
package api
