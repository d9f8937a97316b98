package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-reservations/internal/reservation"
)

// BookingPolicy holds the deployment specific admission rules.
type BookingPolicy struct {
	Advisory     AdvisoryWindow
	Confirmer    Confirmer
	RequireGroup bool
}

// DefaultBookingPolicy uses the 07:00–17:00 advisory window and declines
// prompts that were not confirmed on the request.
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{Advisory: DefaultAdvisoryWindow(), Confirmer: DeclineAll}
}

// BookingService admits, cancels and lists bookings.
type BookingService struct {
	registry    *Registry
	policy      BookingPolicy
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService constructs a booking service with the provided dependencies.
func NewBookingService(registry *Registry, policy BookingPolicy, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(registry, policy, idGenerator, now, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified logger.
func NewBookingServiceWithLogger(registry *Registry, policy BookingPolicy, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	if policy.Confirmer == nil {
		policy.Confirmer = DeclineAll
	}
	return &BookingService{
		registry:    registry,
		policy:      policy,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

func (s *BookingService) ready() error {
	if s == nil {
		return fmt.Errorf("BookingService is nil")
	}
	if s.registry == nil {
		return fmt.Errorf("registry not configured")
	}
	return nil
}

// RequestBooking runs the admission checks and records the booking. The room
// lookup, validation, advisory prompt, overlap check and save happen under
// one registry lock.
func (s *BookingService) RequestBooking(ctx context.Context, req BookingRequest) (booking Booking, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "RequestBooking",
		"room_id", normalizeRoomID(req.RoomID),
		"date", strings.TrimSpace(req.Date),
	)
	defer func() {
		if err != nil {
			if errors.Is(err, ErrUserCancelled) {
				logger.InfoContext(ctx, "booking declined at advisory prompt")
				return
			}
			logger.ErrorContext(ctx, "failed to request booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", booking.ID, "interval", booking.Interval.String()).InfoContext(ctx, "booking created")
	}()

	err = s.registry.update(ctx, func(st *state) error {
		room, ok := st.room(req.RoomID)
		if !ok {
			return ErrRoomNotFound
		}

		date, err := s.validateDate(req.Date)
		if err != nil {
			return err
		}
		interval, err := validateInterval(req.Start, req.End)
		if err != nil {
			return err
		}
		if vErr := s.validateRequiredFields(req); vErr.HasErrors() {
			return vErr
		}

		if !s.policy.Advisory.Covers(interval) && !req.ConfirmOutsideHours {
			warning := AdvisoryWarning{
				RoomID:   room.ID,
				Date:     date,
				Interval: interval,
				Window:   s.policy.Advisory.Interval,
			}
			if !s.policy.Confirmer.Confirm(ctx, warning) {
				return ErrUserCancelled
			}
		}

		candidate := Booking{
			ID:        s.idGenerator(),
			RoomID:    room.ID,
			Date:      date,
			Interval:  interval,
			Requester: strings.TrimSpace(req.Requester),
			Purpose:   strings.TrimSpace(req.Purpose),
			Group:     strings.TrimSpace(req.Group),
			Remarks:   strings.TrimSpace(req.Remarks),
			CreatedAt: s.now(),
		}

		if conflict, found := firstConflict(st.partition(room.ID, date), candidate); found {
			return &OverlapError{Conflicting: conflict, RoomName: room.Name}
		}
		if st.bookingIndex(candidate.ID) >= 0 {
			return fmt.Errorf("%w: booking %s", ErrDuplicateID, candidate.ID)
		}

		st.appendBooking(candidate)
		booking = candidate
		return nil
	})
	if err != nil {
		booking = Booking{}
	}
	return
}

// CancelBooking removes the booking with the given id.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (CancelledBooking, error) {
	return s.cancel(ctx, "CancelBooking", []any{"booking_id", id}, func(st *state) int {
		return st.bookingIndex(strings.TrimSpace(id))
	})
}

// CancelBookingAt removes the booking at the 1-based position of the
// unfiltered listing returned by ListBookings.
func (s *BookingService) CancelBookingAt(ctx context.Context, position int) (CancelledBooking, error) {
	return s.cancel(ctx, "CancelBookingAt", []any{"position", position}, func(st *state) int {
		if position < 1 || position > len(st.bookings) {
			return -1
		}
		return position - 1
	})
}

func (s *BookingService) cancel(ctx context.Context, operation string, attrs []any, locate func(st *state) int) (cancelled CancelledBooking, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, operation, attrs...)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", cancelled.ID, "room_id", cancelled.RoomID).InfoContext(ctx, "booking cancelled")
	}()

	err = s.registry.update(ctx, func(st *state) error {
		i := locate(st)
		if i < 0 {
			return ErrBookingNotFound
		}
		removed := st.removeBooking(i)
		cancelled = CancelledBooking{Booking: removed, RoomName: st.roomName(removed.RoomID)}
		return nil
	})
	if err != nil {
		cancelled = CancelledBooking{}
	}
	return
}

// ListBookings returns bookings matching filter in insertion order. Position
// always refers to the unfiltered listing.
func (s *BookingService) ListBookings(ctx context.Context, filter BookingFilter) (views []BookingView, err error) {
	if err = s.ready(); err != nil {
		return
	}

	date := strings.TrimSpace(filter.Date)
	if date != "" {
		if _, perr := reservation.ParseDate(date); perr != nil {
			vErr := newValidationError(ErrInvalidDate)
			vErr.add("date", "date must be YYYY-MM-DD")
			err = vErr
			return
		}
	}
	roomID := normalizeRoomID(filter.RoomID)

	views = []BookingView{}
	s.registry.read(func(st state) {
		for i, b := range st.bookings {
			if roomID != "" && b.RoomID != roomID {
				continue
			}
			if date != "" && b.Date != date {
				continue
			}
			views = append(views, BookingView{Booking: b, RoomName: st.roomName(b.RoomID), Position: i + 1})
		}
	})

	s.loggerWith(ctx, "ListBookings", "room_id", roomID, "date", date).
		DebugContext(ctx, "bookings listed", "result_count", len(views))
	return
}

// AvailableRooms returns the rooms with no booking overlapping the queried
// interval, in catalog order.
func (s *BookingService) AvailableRooms(ctx context.Context, query AvailabilityQuery) (rooms []Room, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "AvailableRooms", "date", strings.TrimSpace(query.Date))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to query availability", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.DebugContext(ctx, "availability queried", "result_count", len(rooms))
	}()

	date, err := s.validateDate(query.Date)
	if err != nil {
		return nil, err
	}
	interval, err := validateInterval(query.Start, query.End)
	if err != nil {
		return nil, err
	}

	rooms = []Room{}
	s.registry.read(func(st state) {
		for _, room := range st.rooms {
			wanted := reservation.Slot{RoomID: room.ID, Date: date, Interval: interval}
			if reservation.Free(slotsOf(st.partition(room.ID, date)), wanted) {
				rooms = append(rooms, room)
			}
		}
	})
	return rooms, nil
}

func (s *BookingService) validateDate(value string) (string, error) {
	date, err := reservation.ParseDate(value)
	if err != nil {
		vErr := newValidationError(ErrInvalidDate)
		vErr.add("date", "date must be YYYY-MM-DD")
		return "", vErr
	}
	if reservation.IsPast(date, s.now()) {
		vErr := newValidationError(ErrInvalidDate)
		vErr.add("date", "date cannot be in the past")
		return "", vErr
	}
	return reservation.FormatDate(date), nil
}

func validateInterval(start, end string) (reservation.Interval, error) {
	vErr := newValidationError(ErrInvalidInterval)

	s, err := reservation.ParseTimeOfDay(start)
	if err != nil {
		vErr.add("start", "start must be HH:MM between 00:00 and 23:59")
	}
	e, err := reservation.ParseTimeOfDay(end)
	if err != nil {
		vErr.add("end", "end must be HH:MM between 00:00 and 23:59")
	}
	if vErr.HasErrors() {
		return reservation.Interval{}, vErr
	}

	interval, err := reservation.NewInterval(s, e)
	if err != nil {
		vErr.add("end", "end must be after start")
		return reservation.Interval{}, vErr
	}
	return interval, nil
}

func (s *BookingService) validateRequiredFields(req BookingRequest) *ValidationError {
	vErr := newValidationError(ErrMissingField)
	if strings.TrimSpace(req.Requester) == "" {
		vErr.add("requester", "requester is required")
	}
	if strings.TrimSpace(req.Purpose) == "" {
		vErr.add("purpose", "purpose is required")
	}
	if s.policy.RequireGroup && strings.TrimSpace(req.Group) == "" {
		vErr.add("group", "group is required")
	}
	return vErr
}

func slotsOf(bookings []Booking) []reservation.Slot {
	slots := make([]reservation.Slot, len(bookings))
	for i, b := range bookings {
		slots[i] = b.slot()
	}
	return slots
}

func firstConflict(partition []Booking, candidate Booking) (Booking, bool) {
	conflicts := reservation.DetectConflicts(slotsOf(partition), candidate.slot())
	if len(conflicts) == 0 {
		return Booking{}, false
	}
	first := conflicts[0]
	for _, b := range partition {
		if b.ID == first.WithSlotID && b.Interval == first.Interval {
			return b, true
		}
	}
	return Booking{ID: first.WithSlotID, RoomID: first.RoomID, Date: first.Date, Interval: first.Interval}, true
}
