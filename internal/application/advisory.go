package application

import (
	"context"
	"fmt"

	"github.com/example/room-reservations/internal/reservation"
)

// AdvisoryWindow is the range of standard hours. Bookings that reach outside
// it are allowed but need explicit confirmation. A zero window disables the prompt.
type AdvisoryWindow struct {
	reservation.Interval
}

// DefaultAdvisoryWindow returns 07:00–17:00.
func DefaultAdvisoryWindow() AdvisoryWindow {
	return AdvisoryWindow{reservation.Interval{Start: reservation.At(7, 0), End: reservation.At(17, 0)}}
}

// Enabled reports whether the window is configured.
func (w AdvisoryWindow) Enabled() bool {
	return w.Start < w.End
}

// Covers reports whether interval needs no confirmation.
func (w AdvisoryWindow) Covers(interval reservation.Interval) bool {
	return !w.Enabled() || w.Contains(interval)
}

// AdvisoryWarning is presented to a Confirmer before admitting a booking
// outside standard hours.
type AdvisoryWarning struct {
	RoomID   string
	Date     string
	Interval reservation.Interval
	Window   reservation.Interval
}

// Message renders the warning for display.
func (w AdvisoryWarning) Message() string {
	return fmt.Sprintf("time slot %s on %s is outside standard hours (%s)", w.Interval, w.Date, w.Window)
}

// Confirmer decides whether an out-of-hours booking should proceed.
type Confirmer interface {
	Confirm(ctx context.Context, warning AdvisoryWarning) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, warning AdvisoryWarning) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, warning AdvisoryWarning) bool {
	return f(ctx, warning)
}

// DeclineAll refuses every advisory prompt; callers must pre-confirm through
// BookingRequest.ConfirmOutsideHours.
var DeclineAll Confirmer = ConfirmFunc(func(context.Context, AdvisoryWarning) bool { return false })

// AcceptAll confirms every advisory prompt.
var AcceptAll Confirmer = ConfirmFunc(func(context.Context, AdvisoryWarning) bool { return true })
