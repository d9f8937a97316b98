package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/example/room-reservations/internal/persistence"
	"github.com/example/room-reservations/internal/reservation"
)

// state is the in-memory catalog and ledger. Bookings keep insertion order;
// partitions indexes them by room and date.
type state struct {
	rooms      []Room
	bookings   []Booking
	partitions map[string][]int
}

func newState(rooms []Room, bookings []Booking) state {
	s := state{
		rooms:    append([]Room{}, rooms...),
		bookings: append([]Booking{}, bookings...),
	}
	s.reindex()
	return s
}

func (s state) clone() state {
	return newState(s.rooms, s.bookings)
}

func (s *state) reindex() {
	s.partitions = make(map[string][]int, len(s.bookings))
	for i, b := range s.bookings {
		key := reservation.PartitionKey(b.RoomID, b.Date)
		s.partitions[key] = append(s.partitions[key], i)
	}
}

func (s state) roomIndex(id string) int {
	id = normalizeRoomID(id)
	for i, room := range s.rooms {
		if room.ID == id {
			return i
		}
	}
	return -1
}

func (s state) room(id string) (Room, bool) {
	if i := s.roomIndex(id); i >= 0 {
		return s.rooms[i], true
	}
	return Room{}, false
}

func (s state) roomName(id string) string {
	if room, ok := s.room(id); ok {
		return room.Name
	}
	return UnknownRoomName
}

func (s state) bookingIndex(id string) int {
	for i, b := range s.bookings {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (s state) partition(roomID, date string) []Booking {
	idx := s.partitions[reservation.PartitionKey(roomID, date)]
	out := make([]Booking, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.bookings[i])
	}
	return out
}

func (s state) countBookings(roomID string) int {
	roomID = normalizeRoomID(roomID)
	count := 0
	for _, b := range s.bookings {
		if b.RoomID == roomID {
			count++
		}
	}
	return count
}

func (s *state) appendBooking(b Booking) {
	s.bookings = append(s.bookings, b)
	key := reservation.PartitionKey(b.RoomID, b.Date)
	s.partitions[key] = append(s.partitions[key], len(s.bookings)-1)
}

func (s *state) removeBooking(i int) Booking {
	removed := s.bookings[i]
	s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
	s.reindex()
	return removed
}

func (s state) snapshot() persistence.Snapshot {
	snap := persistence.Snapshot{
		Rooms:    make([]persistence.Room, 0, len(s.rooms)),
		Bookings: make([]persistence.Booking, 0, len(s.bookings)),
	}
	for _, r := range s.rooms {
		snap.Rooms = append(snap.Rooms, persistence.Room{ID: r.ID, Name: r.Name, Capacity: r.Capacity})
	}
	for _, b := range s.bookings {
		snap.Bookings = append(snap.Bookings, persistence.Booking{
			ID:        b.ID,
			RoomID:    b.RoomID,
			Date:      b.Date,
			Start:     b.Interval.Start.String(),
			End:       b.Interval.End.String(),
			Requester: b.Requester,
			Purpose:   b.Purpose,
			Group:     b.Group,
			Remarks:   b.Remarks,
			CreatedAt: b.CreatedAt,
		})
	}
	return snap
}

// stateFromSnapshot rebuilds the state from stored records. Anything the
// services would never have written is reported as persistence.ErrCorrupt.
func stateFromSnapshot(snap persistence.Snapshot) (state, error) {
	rooms := make([]Room, 0, len(snap.Rooms))
	seenRooms := make(map[string]struct{}, len(snap.Rooms))
	for i, r := range snap.Rooms {
		room := Room{ID: normalizeRoomID(r.ID), Name: strings.TrimSpace(r.Name), Capacity: r.Capacity}
		switch {
		case room.ID == "":
			return state{}, fmt.Errorf("%w: room %d: missing id", persistence.ErrCorrupt, i)
		case room.Name == "":
			return state{}, fmt.Errorf("%w: room %s: missing name", persistence.ErrCorrupt, room.ID)
		case room.Capacity <= 0:
			return state{}, fmt.Errorf("%w: room %s: capacity %d", persistence.ErrCorrupt, room.ID, room.Capacity)
		}
		if _, dup := seenRooms[room.ID]; dup {
			return state{}, fmt.Errorf("%w: room %s: duplicate id", persistence.ErrCorrupt, room.ID)
		}
		seenRooms[room.ID] = struct{}{}
		rooms = append(rooms, room)
	}

	bookings := make([]Booking, 0, len(snap.Bookings))
	seenBookings := make(map[string]struct{}, len(snap.Bookings))
	for i, b := range snap.Bookings {
		id := strings.TrimSpace(b.ID)
		if id == "" {
			return state{}, fmt.Errorf("%w: booking %d: missing id", persistence.ErrCorrupt, i)
		}
		if _, dup := seenBookings[id]; dup {
			return state{}, fmt.Errorf("%w: booking %s: duplicate id", persistence.ErrCorrupt, id)
		}
		seenBookings[id] = struct{}{}

		if normalizeRoomID(b.RoomID) == "" {
			return state{}, fmt.Errorf("%w: booking %s: missing room id", persistence.ErrCorrupt, id)
		}
		if _, err := reservation.ParseDate(b.Date); err != nil {
			return state{}, fmt.Errorf("%w: booking %s: %v", persistence.ErrCorrupt, id, err)
		}
		interval, err := reservation.ParseInterval(b.Start, b.End)
		if err != nil {
			return state{}, fmt.Errorf("%w: booking %s: %v", persistence.ErrCorrupt, id, err)
		}
		if strings.TrimSpace(b.Requester) == "" || strings.TrimSpace(b.Purpose) == "" {
			return state{}, fmt.Errorf("%w: booking %s: missing requester or purpose", persistence.ErrCorrupt, id)
		}
		bookings = append(bookings, Booking{
			ID:        id,
			RoomID:    normalizeRoomID(b.RoomID),
			Date:      b.Date,
			Interval:  interval,
			Requester: b.Requester,
			Purpose:   b.Purpose,
			Group:     b.Group,
			Remarks:   b.Remarks,
			CreatedAt: b.CreatedAt,
		})
	}

	st := newState(rooms, bookings)
	for _, idx := range st.partitions {
		for j := 1; j < len(idx); j++ {
			earlier := make([]Booking, 0, j)
			for _, k := range idx[:j] {
				earlier = append(earlier, st.bookings[k])
			}
			if conflict, found := firstConflict(earlier, st.bookings[idx[j]]); found {
				return state{}, fmt.Errorf("%w: booking %s overlaps booking %s",
					persistence.ErrCorrupt, st.bookings[idx[j]].ID, conflict.ID)
			}
		}
	}
	return st, nil
}

// Registry owns the room catalog and booking ledger shared by RoomService and
// BookingService. Every mutation is written through to the store before it
// becomes visible; a failed save leaves the previous state in place.
type Registry struct {
	mu    sync.Mutex
	store persistence.SnapshotStore
	state state
}

// OpenRegistry loads the snapshot from store. When the store has never been
// written, the registry starts with seed and saves it immediately.
func OpenRegistry(ctx context.Context, store persistence.SnapshotStore, seed []Room) (*Registry, error) {
	if store == nil {
		return nil, errors.New("application: snapshot store not configured")
	}

	snap, err := store.Load(ctx)
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		rooms := make([]Room, 0, len(seed))
		for _, r := range seed {
			r.ID = normalizeRoomID(r.ID)
			rooms = append(rooms, r)
		}
		initial := newState(rooms, nil)
		if err := store.Save(ctx, initial.snapshot()); err != nil {
			return nil, &PersistenceError{Op: "seed", Err: err}
		}
		return &Registry{store: store, state: initial}, nil
	case err != nil:
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	loaded, err := stateFromSnapshot(snap)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	return &Registry{store: store, state: loaded}, nil
}

// read runs fn against the current state under the lock. fn must not retain
// slices from the state.
func (r *Registry) read(fn func(s state)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.state)
}

// update applies fn to a copy of the state, saves the result and only then
// swaps it in. Errors from fn abort without touching the store.
func (r *Registry) update(ctx context.Context, fn func(s *state) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.state.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := r.store.Save(ctx, next.snapshot()); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	r.state = next
	return nil
}

func normalizeRoomID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
