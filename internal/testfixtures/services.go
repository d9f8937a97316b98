package testfixtures

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/example/room-reservations/internal/application"
	"github.com/example/room-reservations/internal/persistence"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Policy      application.BookingPolicy
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator(""),
		Policy:      application.DefaultBookingPolicy(),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithPolicy overrides the booking policy.
func WithPolicy(policy application.BookingPolicy) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Policy = policy
	}
}

// WithLogger sets the base logger handed to services.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// Services bundles the registry and both services sharing it.
type Services struct {
	Registry *application.Registry
	Rooms    *application.RoomService
	Bookings *application.BookingService
}

// NewServices opens a registry on store, seeding it with seed when the store
// is empty, and wires both services to it.
func (f *ServiceFactory) NewServices(tb testing.TB, store persistence.SnapshotStore, seed []application.Room) Services {
	tb.Helper()

	registry, err := application.OpenRegistry(context.Background(), store, seed)
	if err != nil {
		tb.Fatalf("failed to open registry: %v", err)
	}
	return Services{
		Registry: registry,
		Rooms:    application.NewRoomServiceWithLogger(registry, f.Logger),
		Bookings: application.NewBookingServiceWithLogger(registry, f.Policy, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger),
	}
}
