package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/room-reservations/internal/application"
)

var (
	errBadRequestBody  = errors.New("request body is not valid JSON")
	errInvalidRoomID   = errors.New("room id is required")
	errInvalidPosition = errors.New("position must be a positive integer")
	errRouteNotFound   = errors.New("no such endpoint")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var (
		overlap *application.OverlapError
		active  *application.HasActiveBookingsError
		vErr    *application.ValidationError
	)
	switch {
	case errors.Is(err, application.ErrRoomNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{ErrorCode: "ROOM_NOT_FOUND", Message: "room not found"})
	case errors.Is(err, application.ErrBookingNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{ErrorCode: "BOOKING_NOT_FOUND", Message: "booking not found"})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "resource not found"})
	case errors.Is(err, application.ErrDuplicateID):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{ErrorCode: "DUPLICATE_ID", Message: "a record with this id already exists"})
	case errors.As(err, &active):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{ErrorCode: "ROOM_HAS_BOOKINGS", Message: active.Error()})
	case errors.As(err, &overlap):
		conflict := toBookingDTO(application.BookingView{Booking: overlap.Conflicting, RoomName: overlap.RoomName})
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "BOOKING_OVERLAP",
			Message:   overlap.Error(),
			Conflict:  &conflict,
		})
	case errors.Is(err, application.ErrUserCancelled):
		r.writeJSON(ctx, w, http.StatusPreconditionRequired, errorResponse{
			ErrorCode: "CONFIRMATION_REQUIRED",
			Message:   "the booking falls outside standard hours; resend with confirm_outside_hours set to true",
		})
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: validationCode(vErr),
			Message:   vErr.Error(),
			Errors:    vErr.FieldErrors,
		})
	case errors.Is(err, application.ErrPersistence):
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{ErrorCode: "PERSISTENCE_FAILURE", Message: "the change could not be saved"})
	default:
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func validationCode(vErr *application.ValidationError) string {
	switch {
	case errors.Is(vErr, application.ErrInvalidDate):
		return "INVALID_DATE"
	case errors.Is(vErr, application.ErrInvalidInterval):
		return "INVALID_INTERVAL"
	case errors.Is(vErr, application.ErrMissingField):
		return "MISSING_FIELD"
	}
	return "INVALID_INPUT"
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Conflict  *bookingDTO       `json:"conflict,omitempty"`
}
