package querycache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"venuectl/internal/config"
)

// ErrMiss indicates no cached entry exists for the scope.
var ErrMiss = errors.New("cache miss")

// Entry is one cached response payload.
type Entry struct {
	Scope     string
	Payload   []byte
	FetchedAt time.Time
}

// Fresh reports whether the entry is within the given TTL.
func (e Entry) Fresh(ttl time.Duration) bool {
	return time.Since(e.FetchedAt) <= ttl
}

// Age returns how long ago the entry was fetched.
func (e Entry) Age() time.Duration {
	return time.Since(e.FetchedAt)
}

// Store persists recent API responses keyed by resource scope, so list
// commands can fall back to the last known data when the backend is
// unreachable. Mutations invalidate the scope they touch.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database under cfg.Cache.Dir.
func Open(cfg *config.Config) (*Store, error) {
	if err := os.MkdirAll(cfg.Cache.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return openPath(filepath.Join(cfg.Cache.Dir, "querycache.db"))
}

func openPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Put stores or replaces the payload for a scope, stamping fetched-at now.
func (s *Store) Put(ctx context.Context, scope string, payload []byte) error {
	if scope == "" {
		return errors.New("empty cache scope")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_cache (scope, payload, fetched_at) VALUES (?, ?, ?)
         ON CONFLICT(scope) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		scope, payload, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Get returns the cached entry for a scope, regardless of age. Callers
// decide whether a stale entry is acceptable via Entry.Fresh.
func (s *Store) Get(ctx context.Context, scope string) (Entry, error) {
	var (
		entry   Entry
		fetched string
	)
	entry.Scope = scope
	err := s.db.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM query_cache WHERE scope = ?", scope,
	).Scan(&entry.Payload, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("read cache entry: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, fetched)
	if err != nil {
		return Entry{}, fmt.Errorf("parse fetched_at: %w", err)
	}
	entry.FetchedAt = ts
	return entry, nil
}

// Invalidate removes the entry for a scope and any nested scopes beneath it.
func (s *Store) Invalidate(ctx context.Context, scope string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM query_cache WHERE scope = ? OR scope LIKE ? || '/%'", scope, scope,
	)
	if err != nil {
		return fmt.Errorf("invalidate cache scope: %w", err)
	}
	return nil
}

// Clear removes every cached entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM query_cache"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Entries lists all cached entries ordered by scope, payloads included.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT scope, payload, fetched_at FROM query_cache ORDER BY scope",
	)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry   Entry
			fetched string
		)
		if err := rows.Scan(&entry.Scope, &entry.Payload, &fetched); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, fetched)
		if err != nil {
			return nil, fmt.Errorf("parse fetched_at: %w", err)
		}
		entry.FetchedAt = ts
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
