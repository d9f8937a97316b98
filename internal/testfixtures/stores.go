package testfixtures

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/example/room-reservations/internal/persistence"
	"github.com/example/room-reservations/internal/persistence/jsonfile"
	"github.com/example/room-reservations/internal/persistence/memory"
	"github.com/example/room-reservations/internal/persistence/sqlite"
)

// ErrInjectedSave is returned by stores built with NewFailingStore.
var ErrInjectedSave = errors.New("testfixtures: injected save failure")

// NewJSONStore returns a JSON file store inside a per-test temporary directory.
func NewJSONStore(tb testing.TB) *jsonfile.Store {
	tb.Helper()
	return jsonfile.New(filepath.Join(tb.TempDir(), "reservations.json"))
}

// NewSQLiteStore opens a migrated SQLite store in a per-test temporary
// directory and closes it when the test ends.
func NewSQLiteStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "reservations.db")
	store, err := sqlite.Open(context.Background(), sqlite.DefaultConfig(path))
	if err != nil {
		tb.Fatalf("failed to open sqlite store: %v", err)
	}
	tb.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// NewFailingStore returns an in-memory store that accepts its first
// successfulSaves writes and fails every later one with ErrInjectedSave.
func NewFailingStore(tb testing.TB, successfulSaves int) *FailingStore {
	tb.Helper()
	return &FailingStore{Store: memory.New(), remaining: successfulSaves}
}

// FailingStore wraps memory.Store with a save budget.
type FailingStore struct {
	*memory.Store

	mu        sync.Mutex
	remaining int
}

// Save writes through until the budget is spent.
func (s *FailingStore) Save(ctx context.Context, snapshot persistence.Snapshot) error {
	s.mu.Lock()
	if s.remaining <= 0 {
		s.mu.Unlock()
		return ErrInjectedSave
	}
	s.remaining--
	s.mu.Unlock()
	return s.Store.Save(ctx, snapshot)
}
