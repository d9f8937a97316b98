package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/room-reservations/internal/persistence"
	"github.com/example/room-reservations/internal/persistence/memory"
)

func TestOpenRegistry(t *testing.T) {
	t.Parallel()

	t.Run("seeds and saves an empty store", func(t *testing.T) {
		t.Parallel()

		store := memory.New()
		registry, err := OpenRegistry(context.Background(), store, []Room{{ID: "c01", Name: "Classroom 1A", Capacity: 35}})
		if err != nil {
			t.Fatalf("OpenRegistry failed: %v", err)
		}
		if store.Saves() != 1 {
			t.Fatalf("expected seed to be saved once, got %d", store.Saves())
		}

		rooms, _ := NewRoomService(registry).ListRooms(context.Background())
		if len(rooms) != 1 || rooms[0].ID != "C01" {
			t.Fatalf("unexpected seeded rooms: %+v", rooms)
		}
	})

	t.Run("loads an existing snapshot without seeding", func(t *testing.T) {
		t.Parallel()

		store := memory.NewWithSnapshot(persistence.Snapshot{
			Rooms: []persistence.Room{{ID: "L01", Name: "Library", Capacity: 60}},
		})
		registry, err := OpenRegistry(context.Background(), store, DefaultRooms())
		if err != nil {
			t.Fatalf("OpenRegistry failed: %v", err)
		}
		if store.Saves() != 0 {
			t.Fatalf("expected no save on load, got %d", store.Saves())
		}

		rooms, _ := NewRoomService(registry).ListRooms(context.Background())
		if len(rooms) != 1 || rooms[0].ID != "L01" {
			t.Fatalf("unexpected rooms: %+v", rooms)
		}
	})

	t.Run("empty catalog is not reseeded", func(t *testing.T) {
		t.Parallel()

		store := memory.NewWithSnapshot(persistence.Snapshot{})
		registry, err := OpenRegistry(context.Background(), store, DefaultRooms())
		if err != nil {
			t.Fatalf("OpenRegistry failed: %v", err)
		}
		rooms, _ := NewRoomService(registry).ListRooms(context.Background())
		if len(rooms) != 0 {
			t.Fatalf("expected empty catalog, got %+v", rooms)
		}
	})

	t.Run("surfaces load failures", func(t *testing.T) {
		t.Parallel()

		store := memory.New()
		store.FailLoads(errors.New("permission denied"))
		if _, err := OpenRegistry(context.Background(), store, nil); !errors.Is(err, ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
	})

	t.Run("surfaces seed save failures", func(t *testing.T) {
		t.Parallel()

		store := memory.New()
		store.FailSaves(errors.New("read-only"))
		if _, err := OpenRegistry(context.Background(), store, DefaultRooms()); !errors.Is(err, ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
	})

	t.Run("rejects snapshots with malformed bookings", func(t *testing.T) {
		t.Parallel()

		store := memory.NewWithSnapshot(persistence.Snapshot{
			Bookings: []persistence.Booking{{ID: "b", RoomID: "C01", Date: "2025-10-15", Start: "10:00", End: "09:00"}},
		})
		_, err := OpenRegistry(context.Background(), store, nil)
		if !errors.Is(err, ErrPersistence) || !errors.Is(err, persistence.ErrCorrupt) {
			t.Fatalf("expected corrupt persistence error, got %v", err)
		}
	})

	t.Run("rejects snapshots that break catalog or ledger invariants", func(t *testing.T) {
		t.Parallel()

		room := persistence.Room{ID: "C01", Name: "Classroom 1A", Capacity: 35}
		booking := func(id, start, end string) persistence.Booking {
			return persistence.Booking{ID: id, RoomID: "C01", Date: "2025-10-15", Start: start, End: end, Requester: "Tse", Purpose: "Math"}
		}

		tests := []struct {
			name string
			snap persistence.Snapshot
		}{
			{
				name: "room ids differing only by case",
				snap: persistence.Snapshot{Rooms: []persistence.Room{room, {ID: "c01", Name: "Copy", Capacity: 10}}},
			},
			{
				name: "room without name",
				snap: persistence.Snapshot{Rooms: []persistence.Room{{ID: "C02", Name: " ", Capacity: 10}}},
			},
			{
				name: "room without capacity",
				snap: persistence.Snapshot{Rooms: []persistence.Room{{ID: "C02", Name: "Classroom 1B", Capacity: 0}}},
			},
			{
				name: "room with negative capacity",
				snap: persistence.Snapshot{Rooms: []persistence.Room{{ID: "C02", Name: "Classroom 1B", Capacity: -1}}},
			},
			{
				name: "duplicate booking ids",
				snap: persistence.Snapshot{
					Rooms:    []persistence.Room{room},
					Bookings: []persistence.Booking{booking("a", "09:00", "10:00"), booking("a", "11:00", "12:00")},
				},
			},
			{
				name: "booking without id",
				snap: persistence.Snapshot{
					Rooms:    []persistence.Room{room},
					Bookings: []persistence.Booking{booking("", "09:00", "10:00")},
				},
			},
			{
				name: "booking without requester",
				snap: persistence.Snapshot{
					Rooms: []persistence.Room{room},
					Bookings: []persistence.Booking{func() persistence.Booking {
						b := booking("a", "09:00", "10:00")
						b.Requester = ""
						return b
					}()},
				},
			},
			{
				name: "booking without purpose",
				snap: persistence.Snapshot{
					Rooms: []persistence.Room{room},
					Bookings: []persistence.Booking{func() persistence.Booking {
						b := booking("a", "09:00", "10:00")
						b.Purpose = "  "
						return b
					}()},
				},
			},
			{
				name: "overlapping bookings in one room and date",
				snap: persistence.Snapshot{
					Rooms: []persistence.Room{room},
					Bookings: []persistence.Booking{
						booking("a", "09:00", "10:00"),
						func() persistence.Booking {
							b := booking("b", "09:30", "10:30")
							b.RoomID = "c01"
							return b
						}(),
					},
				},
			},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				_, err := OpenRegistry(context.Background(), memory.NewWithSnapshot(tc.snap), nil)
				if !errors.Is(err, ErrPersistence) || !errors.Is(err, persistence.ErrCorrupt) {
					t.Fatalf("expected corrupt persistence error, got %v", err)
				}
			})
		}
	})

	t.Run("accepts adjacent bookings and bookings for unknown rooms", func(t *testing.T) {
		t.Parallel()

		store := memory.NewWithSnapshot(persistence.Snapshot{
			Rooms: []persistence.Room{{ID: "C01", Name: "Classroom 1A", Capacity: 35}},
			Bookings: []persistence.Booking{
				{ID: "a", RoomID: "C01", Date: "2025-10-15", Start: "09:00", End: "10:00", Requester: "Tse", Purpose: "Math"},
				{ID: "b", RoomID: "C01", Date: "2025-10-15", Start: "10:00", End: "11:00", Requester: "Lam", Purpose: "Art"},
				{ID: "c", RoomID: "X09", Date: "2025-10-15", Start: "09:00", End: "10:00", Requester: "Lam", Purpose: "Art"},
			},
		})
		if _, err := OpenRegistry(context.Background(), store, nil); err != nil {
			t.Fatalf("OpenRegistry failed: %v", err)
		}
	})

	t.Run("requires a store", func(t *testing.T) {
		t.Parallel()

		if _, err := OpenRegistry(context.Background(), nil, nil); err == nil {
			t.Fatalf("expected error without a store")
		}
	})
}

func TestStateSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	h := newHarness(t, DefaultBookingPolicy())
	mustBook(t, h.bookings, request("C02", "2025-10-15", "13:00", "14:30"))

	stored, err := h.store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got := stored.Bookings[0]
	if got.Start != "13:00" || got.End != "14:30" || got.RoomID != "C02" || got.Group != "5E" {
		t.Fatalf("unexpected stored booking: %+v", got)
	}

	reopened, err := OpenRegistry(context.Background(), h.store, nil)
	if err != nil {
		t.Fatalf("OpenRegistry failed: %v", err)
	}
	views, _ := NewBookingService(reopened, DefaultBookingPolicy(), nil, nil).ListBookings(context.Background(), BookingFilter{})
	if len(views) != 1 || views[0].Interval.String() != "13:00-14:30" || views[0].RoomName != "Classroom 1B" {
		t.Fatalf("unexpected bookings after reopen: %+v", views)
	}
}
