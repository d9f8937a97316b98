package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-reservations/internal/application"
	"github.com/example/room-reservations/internal/config"
	httptransport "github.com/example/room-reservations/internal/http"
	"github.com/example/room-reservations/internal/logging"
	"github.com/example/room-reservations/internal/persistence"
	"github.com/example/room-reservations/internal/persistence/jsonfile"
	"github.com/example/room-reservations/internal/persistence/memory"
	"github.com/example/room-reservations/internal/persistence/sqlite"
)

func main() {
	bootstrap := logging.New(slog.LevelInfo, os.Stdout)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, os.Stdout)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("reservation service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	handler, err := buildHandler(ctx, cfg, store, uuid.NewString, time.Now, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("reservation API listening",
		"addr", server.Addr,
		"store_driver", cfg.StoreDriver,
		"store_path", cfg.StorePath,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (persistence.SnapshotStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.New(), noop, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, sqlite.DefaultConfig(cfg.StorePath))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.DriverJSON, "":
		return jsonfile.New(cfg.StorePath), noop, nil
	}
	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

func buildHandler(ctx context.Context, cfg config.Config, store persistence.SnapshotStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) (http.Handler, error) {
	var seed []application.Room
	if cfg.SeedDefaultRooms {
		seed = application.DefaultRooms()
	}

	registry, err := application.OpenRegistry(ctx, store, seed)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}

	policy := application.BookingPolicy{
		Advisory:     application.AdvisoryWindow{Interval: cfg.AdvisoryWindow},
		Confirmer:    application.DeclineAll,
		RequireGroup: cfg.RequireGroup,
	}

	roomService := application.NewRoomServiceWithLogger(registry, logger)
	bookingService := application.NewBookingServiceWithLogger(registry, policy, idGenerator, now, logger)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:    httptransport.NewRoomHandler(roomService, logger),
		Bookings: httptransport.NewBookingHandler(bookingService, logger),
		Logger:   logger,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	}), nil
}
