package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-reservations/internal/application"
	"github.com/example/room-reservations/internal/persistence"
	"github.com/example/room-reservations/internal/reservation"
)

var (
	roomCounter    uint64
	bookingCounter uint64
)

var referenceTime = time.Date(2025, time.October, 1, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns the calendar day of ReferenceTime offset by days.
func ReferenceDate(days int) string {
	return reservation.FormatDate(reservation.Today(referenceTime).AddDate(0, 0, days))
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic catalog entry.
type RoomFixture struct {
	ID       string
	Name     string
	Capacity int
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	fixture := RoomFixture{
		ID:       fmt.Sprintf("R%03d", idx),
		Name:     fmt.Sprintf("Room %03d", idx),
		Capacity: int(20 + idx%20),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) {
		f.ID = id
	}
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(f *RoomFixture) {
		f.Name = name
	}
}

// WithRoomCapacity overrides the generated capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = capacity
	}
}

// Application returns the fixture as an application.Room value.
func (f RoomFixture) Application() application.Room {
	return application.Room{ID: f.ID, Name: f.Name, Capacity: f.Capacity}
}

// Input returns the fixture as an application.RoomInput.
func (f RoomFixture) Input() application.RoomInput {
	return application.RoomInput{ID: f.ID, Name: f.Name, Capacity: f.Capacity}
}

// Persistence returns the fixture as a persistence.Room value.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{ID: f.ID, Name: f.Name, Capacity: f.Capacity}
}

// --------------------------- Booking fixtures ----------------------------

// BookingFixture represents a deterministic booking record.
type BookingFixture struct {
	ID        string
	RoomID    string
	Date      string
	Start     string
	End       string
	Requester string
	Purpose   string
	Group     string
	Remarks   string
	CreatedAt time.Time
}

// BookingOption configures the generated booking fixture.
type BookingOption func(*BookingFixture)

// NewBookingFixture returns a booking for room C01 two weeks after
// ReferenceTime, 09:00–10:00, with optional overrides.
func NewBookingFixture(opts ...BookingOption) BookingFixture {
	idx := atomic.AddUint64(&bookingCounter, 1)
	fixture := BookingFixture{
		ID:        fmt.Sprintf("booking-fixture-%03d", idx),
		RoomID:    "C01",
		Date:      ReferenceDate(14),
		Start:     "09:00",
		End:       "10:00",
		Requester: fmt.Sprintf("Teacher %03d", idx),
		Purpose:   "Math",
		Group:     "5E",
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(f *BookingFixture) {
		f.ID = id
	}
}

// WithBookingRoom overrides the booked room.
func WithBookingRoom(roomID string) BookingOption {
	return func(f *BookingFixture) {
		f.RoomID = roomID
	}
}

// WithBookingDate overrides the booking date.
func WithBookingDate(date string) BookingOption {
	return func(f *BookingFixture) {
		f.Date = date
	}
}

// WithBookingSlot overrides the start and end times.
func WithBookingSlot(start, end string) BookingOption {
	return func(f *BookingFixture) {
		f.Start = start
		f.End = end
	}
}

// WithBookingRequester overrides the requester.
func WithBookingRequester(name string) BookingOption {
	return func(f *BookingFixture) {
		f.Requester = name
	}
}

// WithBookingPurpose overrides the purpose.
func WithBookingPurpose(purpose string) BookingOption {
	return func(f *BookingFixture) {
		f.Purpose = purpose
	}
}

// WithBookingGroup overrides the group.
func WithBookingGroup(group string) BookingOption {
	return func(f *BookingFixture) {
		f.Group = group
	}
}

// WithBookingRemarks overrides the remarks.
func WithBookingRemarks(remarks string) BookingOption {
	return func(f *BookingFixture) {
		f.Remarks = remarks
	}
}

// Request returns the fixture as an admission request.
func (f BookingFixture) Request() application.BookingRequest {
	return application.BookingRequest{
		RoomID:    f.RoomID,
		Date:      f.Date,
		Start:     f.Start,
		End:       f.End,
		Requester: f.Requester,
		Purpose:   f.Purpose,
		Group:     f.Group,
		Remarks:   f.Remarks,
	}
}

// Persistence returns the fixture as a persistence.Booking value.
func (f BookingFixture) Persistence() persistence.Booking {
	return persistence.Booking{
		ID:        f.ID,
		RoomID:    f.RoomID,
		Date:      f.Date,
		Start:     f.Start,
		End:       f.End,
		Requester: f.Requester,
		Purpose:   f.Purpose,
		Group:     f.Group,
		Remarks:   f.Remarks,
		CreatedAt: f.CreatedAt,
	}
}

// Snapshot assembles a persisted document from fixtures.
func Snapshot(rooms []RoomFixture, bookings []BookingFixture) persistence.Snapshot {
	snap := persistence.Snapshot{
		Rooms:    make([]persistence.Room, 0, len(rooms)),
		Bookings: make([]persistence.Booking, 0, len(bookings)),
	}
	for _, r := range rooms {
		snap.Rooms = append(snap.Rooms, r.Persistence())
	}
	for _, b := range bookings {
		snap.Bookings = append(snap.Bookings, b.Persistence())
	}
	return snap
}
