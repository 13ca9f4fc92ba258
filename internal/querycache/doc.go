// Package querycache persists recent API list responses in a local SQLite
// database so read commands can fall back to last known data when the
// backend is unreachable. Entries carry a fetched-at timestamp; mutations
// invalidate the resource scope they touch.
package querycache
