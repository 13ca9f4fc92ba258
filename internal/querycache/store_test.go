package querycache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := openPath(filepath.Join(t.TempDir(), "querycache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "controllers", []byte(`{"controllers":[]}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	entry, err := store.Get(ctx, "controllers")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(entry.Payload) != `{"controllers":[]}` {
		t.Fatalf("unexpected payload: %s", entry.Payload)
	}
	if !entry.Fresh(time.Minute) {
		t.Fatal("freshly written entry should be fresh")
	}
	if entry.Fresh(0) {
		t.Fatal("zero TTL must always be stale")
	}
}

func TestGetMissingScope(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get(context.Background(), "nothing"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestPutReplacesExistingEntry(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "tags", []byte("old")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "tags", []byte("new")); err != nil {
		t.Fatalf("second put: %v", err)
	}
	entry, err := store.Get(ctx, "tags")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(entry.Payload) != "new" {
		t.Fatalf("payload = %s, want new", entry.Payload)
	}
}

func TestInvalidateRemovesNestedScopes(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, scope := range []string{"controllers", "controllers/blaster-01", "schedules"} {
		if err := store.Put(ctx, scope, []byte("x")); err != nil {
			t.Fatalf("put %s: %v", scope, err)
		}
	}
	if err := store.Invalidate(ctx, "controllers"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := store.Get(ctx, "controllers"); !errors.Is(err, ErrMiss) {
		t.Fatal("parent scope survived invalidation")
	}
	if _, err := store.Get(ctx, "controllers/blaster-01"); !errors.Is(err, ErrMiss) {
		t.Fatal("nested scope survived invalidation")
	}
	if _, err := store.Get(ctx, "schedules"); err != nil {
		t.Fatalf("unrelated scope was invalidated: %v", err)
	}
}

func TestClearAndEntries(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "b", []byte("2")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 || entries[0].Scope != "a" || entries[1].Scope != "b" {
		t.Fatalf("unexpected entries: %#v", entries)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err = store.Entries(ctx)
	if err != nil {
		t.Fatalf("entries after clear: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty cache, got %d entries", len(entries))
	}
}
