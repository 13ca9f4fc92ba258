// Package deploy consumes the streaming firmware compile and OTA flash
// endpoints. A Consumer reads delimiter-framed JSON events off the response
// body, maintains per-target progress and results, and resolves the final
// outcome when the stream ends. A flock-based Lock prevents two concurrent
// invocations from flashing at the same time.
package deploy
