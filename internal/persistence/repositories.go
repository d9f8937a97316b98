package persistence

import "context"

// SnapshotStore reads and writes the whole room and booking document at once.
//
// Load returns ErrNotFound when nothing has been saved yet. Save replaces the
// stored document entirely; a failed Save must leave the previous document intact.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}
