package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// RoomService maintains the room catalog.
type RoomService struct {
	registry *Registry
	logger   *slog.Logger
}

// NewRoomService constructs a room service backed by registry.
func NewRoomService(registry *Registry) *RoomService {
	return NewRoomServiceWithLogger(registry, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(registry *Registry, logger *slog.Logger) *RoomService {
	return &RoomService{registry: registry, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

func (s *RoomService) ready() error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if s.registry == nil {
		return fmt.Errorf("registry not configured")
	}
	return nil
}

// FindRoom looks a room up by id, ignoring case.
func (s *RoomService) FindRoom(ctx context.Context, id string) (Room, error) {
	if err := s.ready(); err != nil {
		return Room{}, err
	}

	var (
		room  Room
		found bool
	)
	s.registry.read(func(st state) {
		room, found = st.room(id)
	})
	if !found {
		return Room{}, ErrRoomNotFound
	}
	return room, nil
}

// AddRoom validates input and appends a new room to the catalog.
func (s *RoomService) AddRoom(ctx context.Context, input RoomInput) (room Room, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "AddRoom", "room_id", normalizeRoomID(input.ID))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room added")
	}()

	vErr := validateRoomInput(input, true)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	room = Room{
		ID:       normalizeRoomID(input.ID),
		Name:     strings.TrimSpace(input.Name),
		Capacity: input.Capacity,
	}

	err = s.registry.update(ctx, func(st *state) error {
		if st.roomIndex(room.ID) >= 0 {
			return fmt.Errorf("%w: room %s", ErrDuplicateID, room.ID)
		}
		st.rooms = append(st.rooms, room)
		return nil
	})
	if err != nil {
		room = Room{}
	}
	return
}

// ReplaceRoom overwrites the name and capacity of an existing room. The id
// never changes; input.ID must be empty or name the same room.
func (s *RoomService) ReplaceRoom(ctx context.Context, id string, input RoomInput) (room Room, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "ReplaceRoom", "room_id", normalizeRoomID(id))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to replace room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room replaced")
	}()

	vErr := validateRoomInput(input, false)
	if strings.TrimSpace(input.ID) != "" && normalizeRoomID(input.ID) != normalizeRoomID(id) {
		vErr.add("id", "id cannot be changed")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	err = s.registry.update(ctx, func(st *state) error {
		i := st.roomIndex(id)
		if i < 0 {
			return ErrRoomNotFound
		}
		st.rooms[i].Name = strings.TrimSpace(input.Name)
		st.rooms[i].Capacity = input.Capacity
		room = st.rooms[i]
		return nil
	})
	if err != nil {
		room = Room{}
	}
	return
}

// RemoveRoom deletes a room that no booking references.
func (s *RoomService) RemoveRoom(ctx context.Context, id string) (room Room, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "RemoveRoom", "room_id", normalizeRoomID(id))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to remove room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room removed")
	}()

	err = s.registry.update(ctx, func(st *state) error {
		i := st.roomIndex(id)
		if i < 0 {
			return ErrRoomNotFound
		}
		if n := st.countBookings(id); n > 0 {
			return &HasActiveBookingsError{RoomID: st.rooms[i].ID, Count: n}
		}
		room = st.rooms[i]
		st.rooms = append(st.rooms[:i], st.rooms[i+1:]...)
		return nil
	})
	if err != nil {
		room = Room{}
	}
	return
}

// ListRooms returns the catalog in insertion order.
func (s *RoomService) ListRooms(ctx context.Context) (rooms []Room, err error) {
	if err = s.ready(); err != nil {
		return
	}

	s.registry.read(func(st state) {
		rooms = make([]Room, len(st.rooms))
		copy(rooms, st.rooms)
	})
	s.loggerWith(ctx, "ListRooms").DebugContext(ctx, "rooms listed", "result_count", len(rooms))
	return
}

func validateRoomInput(input RoomInput, requireID bool) *ValidationError {
	vErr := newValidationError(ErrInvalidInput)

	if requireID && strings.TrimSpace(input.ID) == "" {
		vErr.Reason = ErrMissingField
		vErr.add("id", "id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		vErr.Reason = ErrMissingField
		vErr.add("name", "name is required")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}

	return vErr
}
