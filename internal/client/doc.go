// Package client wraps the venue management backend's REST and streaming
// HTTP API.
//
// One Client instance covers every resource surface: controllers, ports,
// command dispatch, queue reads, schedules, tags, app settings, backups,
// users/roles, IR libraries, auth sessions, and the compile/OTA event
// streams. All methods take a context and return explicit errors classified
// by the sentinel set in errors.go.
//
// Authentication is a bearer token supplied by a TokenSource. When the
// backend answers 401, the client refreshes the session once and retries the
// request; a second 401 surfaces as ErrUnauthorized, which the CLI turns
// into a "run venuectl login" hint.
//
// Streaming endpoints use a dedicated http.Client without a timeout so the
// connection stays open until the caller cancels the context.
package client
