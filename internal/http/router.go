package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

type RouterConfig struct {
	Rooms      *RoomHandler
	Bookings   *BookingHandler
	Logger     *slog.Logger
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()
	responder := newResponder(cfg.Logger)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder.writeError(r.Context(), w, http.StatusNotFound, errRouteNotFound)
	})

	if cfg.Rooms != nil {
		router.HandleFunc("/rooms", cfg.Rooms.List).Methods(http.MethodGet)
		router.HandleFunc("/rooms", cfg.Rooms.Create).Methods(http.MethodPost)
		router.HandleFunc("/rooms/{id}", cfg.Rooms.Get).Methods(http.MethodGet)
		router.HandleFunc("/rooms/{id}", cfg.Rooms.Replace).Methods(http.MethodPut)
		router.HandleFunc("/rooms/{id}", cfg.Rooms.Delete).Methods(http.MethodDelete)
	}

	if cfg.Bookings != nil {
		router.HandleFunc("/bookings", cfg.Bookings.List).Methods(http.MethodGet)
		router.HandleFunc("/bookings", cfg.Bookings.Create).Methods(http.MethodPost)
		router.HandleFunc("/bookings/positions/{position:[0-9]+}", cfg.Bookings.CancelAt).Methods(http.MethodDelete)
		router.HandleFunc("/bookings/{id}", cfg.Bookings.Cancel).Methods(http.MethodDelete)
		router.HandleFunc("/availability", cfg.Bookings.Availability).Methods(http.MethodGet)
	}

	var handler http.Handler = router
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}
