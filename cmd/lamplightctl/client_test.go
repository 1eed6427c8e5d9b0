package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunPlanToday(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/profiles/p1/plans/today" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"planId":"abc"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	if err := runPlanToday(srv.URL, "p1", &out); err != nil {
		t.Fatalf("plan today: %v", err)
	}
	if !strings.Contains(out.String(), "abc") {
		t.Fatalf("output missing plan: %s", out.String())
	}
}

func TestRunPlanToday_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "profile not found", http.StatusNotFound)
	}))
	defer srv.Close()

	var out bytes.Buffer
	if err := runPlanToday(srv.URL, "ghost", &out); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestRunEntryAdd_EmptyContent(t *testing.T) {
	var out bytes.Buffer
	if err := runEntryAdd("http://localhost:0", "p1", "journal", "  ", nil, &out); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestRunCachePurge(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Psalm_46_1_3_2026-08-30.json", "John_3_16_2026-08-30.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	keep := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(keep, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runCachePurge(dir, &out); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if !strings.Contains(out.String(), "purged 2") {
		t.Fatalf("unexpected output: %s", out.String())
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("non-cache file removed: %v", err)
	}
}
