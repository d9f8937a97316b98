// Package memory provides an in-process persistence.SnapshotStore. It keeps
// nothing across restarts and is intended for tests and throwaway runs.
package memory

import (
	"context"
	"sync"

	"github.com/example/room-reservations/internal/persistence"
)

// Store keeps the last saved snapshot in memory.
type Store struct {
	mu       sync.RWMutex
	snapshot *persistence.Snapshot
	saves    int
	saveErr  error
	loadErr  error
}

// New returns an empty store; Load reports persistence.ErrNotFound until the
// first Save.
func New() *Store {
	return &Store{}
}

// NewWithSnapshot returns a store that already holds snapshot.
func NewWithSnapshot(snapshot persistence.Snapshot) *Store {
	cloned := snapshot.Clone()
	return &Store{snapshot: &cloned}
}

// Load returns a copy of the stored snapshot.
func (s *Store) Load(ctx context.Context) (persistence.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return persistence.Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loadErr != nil {
		return persistence.Snapshot{}, s.loadErr
	}
	if s.snapshot == nil {
		return persistence.Snapshot{}, persistence.ErrNotFound
	}
	return s.snapshot.Clone(), nil
}

// Save replaces the stored snapshot with a copy of snapshot.
func (s *Store) Save(ctx context.Context, snapshot persistence.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	cloned := snapshot.Clone()
	s.snapshot = &cloned
	s.saves++
	return nil
}

// FailSaves makes every subsequent Save return err. Passing nil restores
// normal behaviour.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
}

// FailLoads makes every subsequent Load return err.
func (s *Store) FailLoads(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}

// Saves reports how many snapshots were written successfully.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
