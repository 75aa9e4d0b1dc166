// Package testutil provides shared test helpers for stores and timers.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/memopad/internal/storage"
)

// TestSQLite creates a temporary SQLite store that is automatically closed.
func TestSQLite(t *testing.T) *storage.SQLite {
	t.Helper()
	s, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "memopad-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestFileStore creates a file store in a temporary directory.
func TestFileStore(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return store.Root(), store
}
