package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB returns a throwaway SQLite database with the schema
// applied. The production target is MySQL, but every statement in this
// package sticks to the portable subset, so SQLite exercises the same
// SQL the service runs in production.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "booking.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

// mustCreate inserts a session or fails the test.
func mustCreate(t *testing.T, repo *SessionRepo, name string, capacity int) uint64 {
	t.Helper()
	s, err := repo.Create(context.Background(), name, capacity)
	if err != nil {
		t.Fatalf("create %q: %v", name, err)
	}
	return s.ID
}
