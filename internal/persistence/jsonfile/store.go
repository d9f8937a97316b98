// Package jsonfile stores the reservation snapshot as a single JSON document
// on the local filesystem.
//
// The document uses the canonical schema of persistence.Snapshot:
//
//	{
//	  "rooms":    [{"id", "name", "capacity"}],
//	  "bookings": [{"id", "room_id", "date", "start", "end",
//	                "requester", "purpose", "group", "remarks", "created_at"}]
//	}
//
// Unknown fields are rejected on load so that documents written with a
// different schema are reported instead of being silently overwritten.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/room-reservations/internal/persistence"
)

// Store implements persistence.SnapshotStore backed by one JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store that reads and writes the document at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the backing document.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the whole document.
func (s *Store) Load(ctx context.Context) (persistence.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return persistence.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return persistence.Snapshot{}, persistence.ErrNotFound
		}
		return persistence.Snapshot{}, fmt.Errorf("jsonfile: read %s: %w", s.path, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var snapshot persistence.Snapshot
	if err := decoder.Decode(&snapshot); err != nil {
		return persistence.Snapshot{}, fmt.Errorf("%w: %s: %v", persistence.ErrCorrupt, s.path, err)
	}

	return snapshot.Clone(), nil
}

// Save atomically replaces the document by writing a temporary file in the
// same directory and renaming it over the original.
func (s *Store) Save(ctx context.Context, snapshot persistence.Snapshot) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode snapshot: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile: create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile: write %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile: sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile: close %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("jsonfile: replace %s: %w", s.path, err)
	}

	return nil
}
