// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/boardroom/cliparse"
	"github.com/danielhkuo/boardroom/db"
	"github.com/danielhkuo/boardroom/seed"
	"github.com/danielhkuo/boardroom/store"
)

// Now is the fixed "today" used by tests. Relative seed dates (tenders)
// resolve against it.
var Now = time.Date(2025, time.March, 28, 15, 30, 0, 0, time.UTC)

// Clock returns Now. It satisfies the clock parameter of the handlers.
func Clock() time.Time {
	return Now
}

// SeedData loads the embedded seed resolved against Now
func SeedData(t *testing.T) seed.Data {
	t.Helper()

	data, err := seed.Load("", Now)
	if err != nil {
		t.Fatalf("Failed to load seed data: %v", err)
	}
	return data
}

// SetupBoard returns an in-memory board and catalog filled with the seed
func SetupBoard(t *testing.T) (*store.Memory, *store.Catalog) {
	t.Helper()
	return SetupBoardWithOptions(t, store.Options{})
}

// SetupBoardWithOptions is SetupBoard with a custom write policy
func SetupBoardWithOptions(t *testing.T, opts store.Options) (*store.Memory, *store.Catalog) {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	data := SeedData(t)
	board, err := store.NewMemory(data.Members, data.Meetings, opts)
	if err != nil {
		t.Fatalf("Failed to create memory board: %v", err)
	}
	return board, store.NewCatalog(data.Documents, data.Compliance, data.Tenders)
}

// SetupSQLiteBoard returns a SQLite-backed board with the seed imported.
// Every call gets its own private in-memory database.
func SetupSQLiteBoard(t *testing.T) (*db.Store, *store.Catalog) {
	t.Helper()

	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	data := SeedData(t)
	board := db.NewStore(conn, store.Options{Logger: slog.New(slog.DiscardHandler)})
	if err := board.Import(context.Background(), data.Members, data.Meetings); err != nil {
		t.Fatalf("Failed to import seed data: %v", err)
	}
	return board, store.NewCatalog(data.Documents, data.Compliance, data.Tenders)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		Store:           cliparse.StoreMemory,
		CurrentMemberID: "bm1",
		LogFormat:       "text",
		LogLevel:        "info",
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
