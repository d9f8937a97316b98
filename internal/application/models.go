package application

import (
	"time"

	"github.com/example/room-reservations/internal/reservation"
)

// UnknownRoomName is shown for bookings whose room is no longer in the catalog.
const UnknownRoomName = "Unknown Classroom"

// Room is a bookable space in the catalog.
type Room struct {
	ID       string
	Name     string
	Capacity int
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	ID       string
	Name     string
	Capacity int
}

// Booking is a confirmed reservation of one room for an interval on one date.
type Booking struct {
	ID        string
	RoomID    string
	Date      string
	Interval  reservation.Interval
	Requester string
	Purpose   string
	Group     string
	Remarks   string
	CreatedAt time.Time
}

func (b Booking) slot() reservation.Slot {
	return reservation.Slot{ID: b.ID, RoomID: b.RoomID, Date: b.Date, Interval: b.Interval}
}

// BookingRequest is the raw admission input. Date, Start and End are
// parsed and validated by the ledger.
type BookingRequest struct {
	RoomID    string
	Date      string
	Start     string
	End       string
	Requester string
	Purpose   string
	Group     string
	Remarks   string

	// ConfirmOutsideHours answers the advisory prompt ahead of time.
	ConfirmOutsideHours bool
}

// BookingFilter narrows a booking listing. Empty fields match everything.
type BookingFilter struct {
	RoomID string
	Date   string
}

// BookingView is a listed booking with its resolved room name and its
// 1-based position in the unfiltered listing.
type BookingView struct {
	Booking
	RoomName string
	Position int
}

// CancelledBooking describes a booking that was just removed.
type CancelledBooking struct {
	Booking
	RoomName string
}

// AvailabilityQuery asks which rooms are free for an interval on a date.
type AvailabilityQuery struct {
	Date  string
	Start string
	End   string
}
