package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
)

var allKeys = []string{
	"RESERVATIONS_HTTP_PORT",
	"RESERVATIONS_STORE_DRIVER",
	"RESERVATIONS_STORE_PATH",
	"RESERVATIONS_ADVISORY_START",
	"RESERVATIONS_ADVISORY_END",
	"RESERVATIONS_REQUIRE_GROUP",
	"RESERVATIONS_SEED_DEFAULT_ROOMS",
	"RESERVATIONS_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {
	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.StoreDriver != DriverJSON || cfg.StorePath != "reservations.json" {
			t.Fatalf("unexpected default store: %s %q", cfg.StoreDriver, cfg.StorePath)
		}
		if cfg.AdvisoryWindow.String() != "07:00-17:00" {
			t.Fatalf("unexpected default advisory window: %s", cfg.AdvisoryWindow)
		}
		if cfg.RequireGroup || !cfg.SeedDefaultRooms {
			t.Fatalf("unexpected default flags: %+v", cfg)
		}
		if cfg.LogLevel != slog.LevelInfo {
			t.Fatalf("unexpected default log level: %v", cfg.LogLevel)
		}
	})

	t.Run("sqlite driver defaults to a database file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RESERVATIONS_STORE_DRIVER", "SQLite")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.StoreDriver != DriverSQLite || cfg.StorePath != "reservations.db" {
			t.Fatalf("unexpected store config: %s %q", cfg.StoreDriver, cfg.StorePath)
		}
	})

	t.Run("parses overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RESERVATIONS_HTTP_PORT", "9090")
		t.Setenv("RESERVATIONS_STORE_PATH", "/var/lib/reservations/data.json")
		t.Setenv("RESERVATIONS_ADVISORY_START", "08:30")
		t.Setenv("RESERVATIONS_ADVISORY_END", "16:00")
		t.Setenv("RESERVATIONS_REQUIRE_GROUP", "true")
		t.Setenv("RESERVATIONS_SEED_DEFAULT_ROOMS", "0")
		t.Setenv("RESERVATIONS_LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.StorePath != "/var/lib/reservations/data.json" {
			t.Fatalf("unexpected store path %q", cfg.StorePath)
		}
		if cfg.AdvisoryWindow.String() != "08:30-16:00" {
			t.Fatalf("unexpected advisory window %s", cfg.AdvisoryWindow)
		}
		if !cfg.RequireGroup || cfg.SeedDefaultRooms {
			t.Fatalf("unexpected flags: %+v", cfg)
		}
		if cfg.LogLevel != slog.LevelDebug {
			t.Fatalf("unexpected log level %v", cfg.LogLevel)
		}
	})

	t.Run("reports every invalid value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RESERVATIONS_HTTP_PORT", "abc")
		t.Setenv("RESERVATIONS_STORE_DRIVER", "postgres")
		t.Setenv("RESERVATIONS_REQUIRE_GROUP", "maybe")
		t.Setenv("RESERVATIONS_LOG_LEVEL", "loud")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		for _, key := range []string{"RESERVATIONS_HTTP_PORT", "RESERVATIONS_STORE_DRIVER", "RESERVATIONS_REQUIRE_GROUP", "RESERVATIONS_LOG_LEVEL"} {
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected %s in error, got %q", key, err.Error())
			}
		}
	})

	t.Run("rejects an inverted advisory window", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RESERVATIONS_ADVISORY_START", "18:00")

		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "RESERVATIONS_ADVISORY_START/RESERVATIONS_ADVISORY_END") {
			t.Fatalf("expected advisory window error, got %v", err)
		}
	})
}
