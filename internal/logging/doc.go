// Package logging provides the slog-based logging stack shared by the CLI.
//
// New/NewFromConfig build loggers with console or JSON output; the console
// handler renders compact "TIME LEVEL component: message key=value" lines.
// Attr helpers and standardized field keys keep hostnames, batch ids, and
// correlation ids consistent across components, and WithContext derives those
// fields from a context so request-scoped loggers stay cheap to build.
package logging
