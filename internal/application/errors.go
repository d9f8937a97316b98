package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrRoomNotFound is returned when a room id is not in the catalog.
	ErrRoomNotFound = fmt.Errorf("%w: room", ErrNotFound)
	// ErrBookingNotFound is returned when a booking reference matches nothing in the ledger.
	ErrBookingNotFound = fmt.Errorf("%w: booking", ErrNotFound)
	// ErrDuplicateID is returned when a room or booking id is already in use.
	ErrDuplicateID = errors.New("application: duplicate id")
	// ErrHasActiveBookings is returned when a room still referenced by bookings is removed.
	ErrHasActiveBookings = errors.New("application: room has active bookings")
	// ErrOverlap is returned when a requested booking collides with an existing one.
	ErrOverlap = errors.New("application: booking overlaps an existing booking")
	// ErrUserCancelled is returned when the caller declines an advisory confirmation.
	ErrUserCancelled = errors.New("application: cancelled by user")
	// ErrPersistence is returned when the snapshot store fails to load or save.
	ErrPersistence = errors.New("application: persistence failure")

	// ErrInvalidDate marks a validation failure on the booking date.
	ErrInvalidDate = errors.New("application: invalid date")
	// ErrInvalidInterval marks a validation failure on the booking start or end time.
	ErrInvalidInterval = errors.New("application: invalid interval")
	// ErrMissingField marks a validation failure caused by an empty required field.
	ErrMissingField = errors.New("application: missing required field")
	// ErrInvalidInput marks any other malformed input.
	ErrInvalidInput = errors.New("application: invalid input")
)

// ValidationError captures field level validation issues that callers can surface to users.
// Reason classifies the failure and is exposed through Unwrap.
type ValidationError struct {
	Reason      error
	FieldErrors map[string]string
}

func newValidationError(reason error) *ValidationError {
	return &ValidationError{Reason: reason}
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if v.Reason != nil {
		return "validation failed: " + v.Reason.Error()
	}
	return "validation failed"
}

// Unwrap exposes the failure class to errors.Is.
func (v *ValidationError) Unwrap() error {
	if v == nil {
		return nil
	}
	return v.Reason
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// HasActiveBookingsError reports a refused room removal.
type HasActiveBookingsError struct {
	RoomID string
	Count  int
}

func (e *HasActiveBookingsError) Error() string {
	return fmt.Sprintf("application: room %s has %d active booking(s); cancel them first", e.RoomID, e.Count)
}

// Is matches ErrHasActiveBookings.
func (e *HasActiveBookingsError) Is(target error) bool {
	return target == ErrHasActiveBookings
}

// OverlapError names the booking that blocked an admission.
type OverlapError struct {
	Conflicting Booking
	RoomName    string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("application: %s (%s) is already booked on %s from %s by %s",
		e.RoomName, e.Conflicting.RoomID, e.Conflicting.Date, e.Conflicting.Interval, e.Conflicting.Requester)
}

// Is matches ErrOverlap.
func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlap
}

// PersistenceError wraps a store failure together with the operation that triggered it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("application: %s snapshot: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is matches ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
