package persistence

import "time"

// Room is the stored form of a catalog entry.
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Booking is the stored form of a confirmed reservation. Start and End use
// the "HH:MM" notation and Date uses "YYYY-MM-DD".
type Booking struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Date      string    `json:"date"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Requester string    `json:"requester"`
	Purpose   string    `json:"purpose"`
	Group     string    `json:"group,omitempty"`
	Remarks   string    `json:"remarks,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the complete persisted document: the room catalog and the
// booking ledger. Booking order is significant and must be preserved.
type Snapshot struct {
	Rooms    []Room    `json:"rooms"`
	Bookings []Booking `json:"bookings"`
}

// Clone returns a deep copy of the snapshot with non-nil collections.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Rooms:    make([]Room, len(s.Rooms)),
		Bookings: make([]Booking, len(s.Bookings)),
	}
	copy(out.Rooms, s.Rooms)
	copy(out.Bookings, s.Bookings)
	return out
}
