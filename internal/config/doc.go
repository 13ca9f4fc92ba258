// Package config loads and validates venuectl's TOML configuration.
//
// Load applies defaults, environment overrides (VENUECTL_BASE_URL,
// VENUECTL_STATE_DIR), path expansion, and validation in one pass, so every
// other package receives a fully normalized Config. The backend origin is
// always explicit configuration; nothing is derived from the runtime
// environment at call sites.
package config
