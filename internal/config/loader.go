package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/example/room-reservations/internal/logging"
	"github.com/example/room-reservations/internal/reservation"
)

// Store drivers accepted by RESERVATIONS_STORE_DRIVER.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config captures environment driven configuration values for the reservation service.
type Config struct {
	HTTPPort         int
	StoreDriver      string
	StorePath        string
	AdvisoryWindow   reservation.Interval
	RequireGroup     bool
	SeedDefaultRooms bool
	LogLevel         slog.Level
}

// Load parses configuration values from the current process environment.
//
// Every variable is optional. Invalid values are collected and reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:         8080,
		StoreDriver:      DriverJSON,
		AdvisoryWindow:   reservation.Interval{Start: reservation.At(7, 0), End: reservation.At(17, 0)},
		SeedDefaultRooms: true,
		LogLevel:         slog.LevelInfo,
	}

	invalid := make([]string, 0, 4)

	if portValue := strings.TrimSpace(os.Getenv("RESERVATIONS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "RESERVATIONS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if driver := strings.ToLower(strings.TrimSpace(os.Getenv("RESERVATIONS_STORE_DRIVER"))); driver != "" {
		switch driver {
		case DriverJSON, DriverSQLite, DriverMemory:
			cfg.StoreDriver = driver
		default:
			invalid = append(invalid, "RESERVATIONS_STORE_DRIVER")
		}
	}

	cfg.StorePath = strings.TrimSpace(os.Getenv("RESERVATIONS_STORE_PATH"))
	if cfg.StorePath == "" {
		cfg.StorePath = defaultStorePath(cfg.StoreDriver)
	}

	start, end := cfg.AdvisoryWindow.Start, cfg.AdvisoryWindow.End
	if value := strings.TrimSpace(os.Getenv("RESERVATIONS_ADVISORY_START")); value != "" {
		parsed, err := reservation.ParseTimeOfDay(value)
		if err != nil {
			invalid = append(invalid, "RESERVATIONS_ADVISORY_START")
		} else {
			start = parsed
		}
	}
	if value := strings.TrimSpace(os.Getenv("RESERVATIONS_ADVISORY_END")); value != "" {
		parsed, err := reservation.ParseTimeOfDay(value)
		if err != nil {
			invalid = append(invalid, "RESERVATIONS_ADVISORY_END")
		} else {
			end = parsed
		}
	}
	if window, err := reservation.NewInterval(start, end); err != nil {
		invalid = append(invalid, "RESERVATIONS_ADVISORY_START/RESERVATIONS_ADVISORY_END")
	} else {
		cfg.AdvisoryWindow = window
	}

	if value := strings.TrimSpace(os.Getenv("RESERVATIONS_REQUIRE_GROUP")); value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			invalid = append(invalid, "RESERVATIONS_REQUIRE_GROUP")
		} else {
			cfg.RequireGroup = b
		}
	}

	if value := strings.TrimSpace(os.Getenv("RESERVATIONS_SEED_DEFAULT_ROOMS")); value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			invalid = append(invalid, "RESERVATIONS_SEED_DEFAULT_ROOMS")
		} else {
			cfg.SeedDefaultRooms = b
		}
	}

	if value := os.Getenv("RESERVATIONS_LOG_LEVEL"); strings.TrimSpace(value) != "" {
		level, err := logging.ParseLevel(value)
		if err != nil {
			invalid = append(invalid, "RESERVATIONS_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func defaultStorePath(driver string) string {
	switch driver {
	case DriverSQLite:
		return "reservations.db"
	case DriverMemory:
		return ""
	}
	return "reservations.json"
}
