package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/example/room-reservations/internal/persistence"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("reports not found before the first save", func(t *testing.T) {
		if _, err := New().Load(ctx); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected persistence.ErrNotFound, got %v", err)
		}
	})

	t.Run("isolates stored data from caller mutations", func(t *testing.T) {
		store := New()
		snapshot := persistence.Snapshot{Rooms: []persistence.Room{{ID: "C01", Name: "Classroom 1A", Capacity: 35}}}
		if err := store.Save(ctx, snapshot); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		snapshot.Rooms[0].Name = "mutated"

		loaded, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Rooms[0].Name != "Classroom 1A" {
			t.Fatalf("stored snapshot was mutated: %#v", loaded.Rooms)
		}
		if store.Saves() != 1 {
			t.Fatalf("expected one save, got %d", store.Saves())
		}
	})

	t.Run("injects save failures", func(t *testing.T) {
		boom := errors.New("disk full")
		store := NewWithSnapshot(persistence.Snapshot{})
		store.FailSaves(boom)

		if err := store.Save(ctx, persistence.Snapshot{}); !errors.Is(err, boom) {
			t.Fatalf("expected injected error, got %v", err)
		}
		if store.Saves() != 0 {
			t.Fatalf("failed save must not be counted")
		}

		store.FailSaves(nil)
		if err := store.Save(ctx, persistence.Snapshot{}); err != nil {
			t.Fatalf("expected save to recover, got %v", err)
		}
	})
}
