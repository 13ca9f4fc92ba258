package preflight

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace(dir, 1); !result.Passed {
		t.Fatalf("expected pass for 1 byte: %+v", result)
	}
	if result := CheckFreeSpace(dir, math.MaxUint64); result.Passed {
		t.Fatalf("expected failure for absurd requirement: %+v", result)
	}
}

func TestCheckFreeSpaceUsesParentForMissingFile(t *testing.T) {
	dir := t.TempDir()
	result := CheckFreeSpace(dir+"/not-yet-downloaded.db", 1)
	if !result.Passed {
		t.Fatalf("expected parent directory fallback to pass: %+v", result)
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if result := CheckDirectoryAccess("State dir", dir); !result.Passed {
		t.Fatalf("expected pass: %+v", result)
	}
	if result := CheckDirectoryAccess("State dir", dir+"/missing"); result.Passed {
		t.Fatal("expected failure for missing directory")
	}
}

func TestCheckAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	result := CheckAPI(context.Background(), server.URL)
	if !result.Passed {
		t.Fatalf("any HTTP response should count as reachable: %+v", result)
	}
	if !strings.Contains(result.Detail, "401") {
		t.Fatalf("expected status in detail: %+v", result)
	}

	if result := CheckAPI(context.Background(), "http://127.0.0.1:1"); result.Passed {
		t.Fatal("expected unreachable backend to fail")
	}
}
