package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/room-reservations/internal/application"
)

type bookingService interface {
	RequestBooking(ctx context.Context, req application.BookingRequest) (application.Booking, error)
	CancelBooking(ctx context.Context, id string) (application.CancelledBooking, error)
	CancelBookingAt(ctx context.Context, position int) (application.CancelledBooking, error)
	ListBookings(ctx context.Context, filter application.BookingFilter) ([]application.BookingView, error)
	AvailableRooms(ctx context.Context, query application.AvailabilityQuery) ([]application.Room, error)
}

type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "room_id", req.RoomID, "date", req.Date)

	booking, err := h.service.RequestBooking(r.Context(), req.toRequest())
	if err != nil {
		logger.ErrorContext(r.Context(), "booking request failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{
		Booking: toBookingDTO(application.BookingView{Booking: booking}),
	})
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	filter := application.BookingFilter{
		RoomID: strings.TrimSpace(query.Get("room_id")),
		Date:   strings.TrimSpace(query.Get("date")),
	}
	logger := h.log(r.Context(), "List", "room_id", filter.RoomID, "date", filter.Date)

	views, err := h.service.ListBookings(r.Context(), filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(views)).InfoContext(r.Context(), "bookings listed")
	out := make([]bookingDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toBookingDTO(v))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{Bookings: out})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(mux.Vars(r)["id"])
	logger := h.log(r.Context(), "Cancel", "booking_id", id)

	cancelled, err := h.service.CancelBooking(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toCancelledDTO(cancelled)})
}

func (h *BookingHandler) CancelAt(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	position, err := strconv.Atoi(mux.Vars(r)["position"])
	if err != nil || position < 1 {
		h.log(r.Context(), "CancelAt", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid booking position", "value", mux.Vars(r)["position"])
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidPosition)
		return
	}

	logger := h.log(r.Context(), "CancelAt", "position", position)
	cancelled, err := h.service.CancelBookingAt(r.Context(), position)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", cancelled.ID).InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toCancelledDTO(cancelled)})
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	query := application.AvailabilityQuery{Date: q.Get("date"), Start: q.Get("start"), End: q.Get("end")}
	logger := h.log(r.Context(), "Availability", "date", query.Date)

	rooms, err := h.service.AvailableRooms(r.Context(), query)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability query failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rooms)).InfoContext(r.Context(), "availability listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

type bookingRequest struct {
	RoomID              string `json:"room_id"`
	Date                string `json:"date"`
	Start               string `json:"start"`
	End                 string `json:"end"`
	Requester           string `json:"requester"`
	Purpose             string `json:"purpose"`
	Group               string `json:"group"`
	Remarks             string `json:"remarks"`
	ConfirmOutsideHours bool   `json:"confirm_outside_hours"`
}

func (r bookingRequest) toRequest() application.BookingRequest {
	return application.BookingRequest{
		RoomID:              r.RoomID,
		Date:                r.Date,
		Start:               r.Start,
		End:                 r.End,
		Requester:           r.Requester,
		Purpose:             r.Purpose,
		Group:               r.Group,
		Remarks:             r.Remarks,
		ConfirmOutsideHours: r.ConfirmOutsideHours,
	}
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type listBookingsResponse struct {
	Bookings []bookingDTO `json:"bookings"`
}

type bookingDTO struct {
	ID        string `json:"id"`
	Position  int    `json:"position,omitempty"`
	RoomID    string `json:"room_id"`
	RoomName  string `json:"room_name,omitempty"`
	Date      string `json:"date"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Requester string `json:"requester"`
	Purpose   string `json:"purpose"`
	Group     string `json:"group,omitempty"`
	Remarks   string `json:"remarks,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toBookingDTO(view application.BookingView) bookingDTO {
	dto := bookingDTO{
		ID:        view.ID,
		Position:  view.Position,
		RoomID:    view.RoomID,
		RoomName:  view.RoomName,
		Date:      view.Date,
		Start:     view.Interval.Start.String(),
		End:       view.Interval.End.String(),
		Requester: view.Requester,
		Purpose:   view.Purpose,
		Group:     view.Group,
		Remarks:   view.Remarks,
	}
	if !view.CreatedAt.IsZero() {
		dto.CreatedAt = view.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return dto
}

func toCancelledDTO(cancelled application.CancelledBooking) bookingDTO {
	return toBookingDTO(application.BookingView{Booking: cancelled.Booking, RoomName: cancelled.RoomName})
}
