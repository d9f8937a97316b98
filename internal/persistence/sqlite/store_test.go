package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/room-reservations/internal/persistence"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()

	store, err := Open(context.Background(), DefaultConfig(path))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("reports a fresh database as not found", func(t *testing.T) {
		t.Parallel()

		store := openTestStore(t, filepath.Join(t.TempDir(), "reservations.db"))
		if _, err := store.Load(context.Background()); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected persistence.ErrNotFound, got %v", err)
		}
	})

	t.Run("round trips snapshots preserving booking order", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := openTestStore(t, filepath.Join(t.TempDir(), "reservations.db"))

		created := time.Date(2025, time.October, 1, 8, 0, 0, 0, time.UTC)
		want := persistence.Snapshot{
			Rooms: []persistence.Room{
				{ID: "D01", Name: "Hall", Capacity: 1200},
				{ID: "C01", Name: "Classroom 1A", Capacity: 35},
			},
			Bookings: []persistence.Booking{
				{ID: "z", RoomID: "C01", Date: "2025-10-15", Start: "10:00", End: "11:00", Requester: "Tse", Purpose: "Math", Group: "5E", CreatedAt: created},
				{ID: "a", RoomID: "C01", Date: "2025-10-15", Start: "09:00", End: "10:00", Requester: "Lam", Purpose: "Music", Remarks: "piano", CreatedAt: created.Add(time.Minute)},
			},
		}

		if err := store.Save(ctx, want); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if len(got.Rooms) != 2 || got.Rooms[0] != want.Rooms[0] || got.Rooms[1] != want.Rooms[1] {
			t.Fatalf("unexpected rooms: %#v", got.Rooms)
		}
		if len(got.Bookings) != 2 {
			t.Fatalf("unexpected bookings: %#v", got.Bookings)
		}
		for i := range want.Bookings {
			if got.Bookings[i].ID != want.Bookings[i].ID ||
				got.Bookings[i].Remarks != want.Bookings[i].Remarks ||
				!got.Bookings[i].CreatedAt.Equal(want.Bookings[i].CreatedAt) {
				t.Fatalf("booking %d mismatch: got %#v want %#v", i, got.Bookings[i], want.Bookings[i])
			}
		}
	})

	t.Run("replaces the previous snapshot entirely", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := openTestStore(t, filepath.Join(t.TempDir(), "reservations.db"))

		first := persistence.Snapshot{Rooms: []persistence.Room{{ID: "C01", Name: "Classroom 1A", Capacity: 35}}}
		if err := store.Save(ctx, first); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := store.Save(ctx, persistence.Snapshot{}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(got.Rooms) != 0 || len(got.Bookings) != 0 {
			t.Fatalf("expected empty snapshot, got %#v", got)
		}
	})

	t.Run("rolls back when a row violates a constraint", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := openTestStore(t, filepath.Join(t.TempDir(), "reservations.db"))

		good := persistence.Snapshot{Rooms: []persistence.Room{{ID: "C01", Name: "Classroom 1A", Capacity: 35}}}
		if err := store.Save(ctx, good); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		bad := persistence.Snapshot{Rooms: []persistence.Room{{ID: "C02", Name: "Broken", Capacity: 0}}}
		if err := store.Save(ctx, bad); err == nil {
			t.Fatalf("expected constraint violation")
		}

		got, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(got.Rooms) != 1 || got.Rooms[0].ID != "C01" {
			t.Fatalf("expected previous snapshot to survive, got %#v", got.Rooms)
		}
	})

	t.Run("persists across reopen", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "reservations.db")

		store, err := Open(ctx, DefaultConfig(path))
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if err := store.Save(ctx, persistence.Snapshot{Rooms: []persistence.Room{{ID: "C01", Name: "Classroom 1A", Capacity: 35}}}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		reopened := openTestStore(t, path)
		got, err := reopened.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(got.Rooms) != 1 {
			t.Fatalf("expected persisted room, got %#v", got.Rooms)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{name: "defaults", cfg: DefaultConfig("x.db"), ok: true},
		{name: "empty dsn", cfg: Config{}, ok: false},
		{name: "bad journal mode", cfg: Config{DSN: "x.db", JournalMode: "SIDEWAYS"}, ok: false},
		{name: "bad synchronous", cfg: Config{DSN: "x.db", Synchronous: "SOMETIMES"}, ok: false},
		{name: "negative timeout", cfg: Config{DSN: "x.db", BusyTimeout: -time.Second}, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
