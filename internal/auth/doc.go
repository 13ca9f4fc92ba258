// Package auth persists the operator session issued by the backend's
// auth endpoints and hands bearer tokens to the HTTP client.
//
// Token issuance and validation are entirely backend concerns; this package
// only stores what the backend returned (access token, refresh token,
// expiry) plus a stable per-install client identifier. The file store keeps
// state under the configured state directory with 0600 permissions.
package auth
