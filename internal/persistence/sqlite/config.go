package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// Config holds SQLite connection settings.
type Config struct {
	// DSN is the database file path or connection string.
	DSN string

	// BusyTimeout sets how long to wait for database locks.
	BusyTimeout time.Duration

	// JournalMode sets the SQLite journal mode (WAL, DELETE, TRUNCATE, ...).
	JournalMode string

	// Synchronous sets the synchronous mode (FULL, NORMAL, OFF).
	Synchronous string

	// MaxOpenConns sets the maximum number of open connections.
	MaxOpenConns int
}

// DefaultConfig returns settings suited to a single-process store at path.
func DefaultConfig(path string) Config {
	return Config{
		DSN:          path,
		BusyTimeout:  5 * time.Second,
		JournalMode:  "WAL",
		Synchronous:  "FULL",
		MaxOpenConns: 1,
	}
}

var (
	validJournalModes = map[string]bool{
		"DELETE":   true,
		"TRUNCATE": true,
		"PERSIST":  true,
		"MEMORY":   true,
		"WAL":      true,
		"OFF":      true,
	}
	validSyncModes = map[string]bool{
		"OFF":    true,
		"NORMAL": true,
		"FULL":   true,
		"EXTRA":  true,
	}
)

// Validate checks the configuration before a connection is opened.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("DSN cannot be empty")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("BusyTimeout cannot be negative")
	}
	if c.JournalMode != "" && !validJournalModes[strings.ToUpper(c.JournalMode)] {
		return fmt.Errorf("invalid journal mode: %s", c.JournalMode)
	}
	if c.Synchronous != "" && !validSyncModes[strings.ToUpper(c.Synchronous)] {
		return fmt.Errorf("invalid synchronous mode: %s", c.Synchronous)
	}
	if c.MaxOpenConns < 0 {
		return fmt.Errorf("MaxOpenConns cannot be negative")
	}
	return nil
}

func (c Config) pragmas() []string {
	stmts := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", c.BusyTimeout.Milliseconds()),
	}
	if c.JournalMode != "" {
		stmts = append(stmts, "PRAGMA journal_mode = "+strings.ToUpper(c.JournalMode))
	}
	if c.Synchronous != "" {
		stmts = append(stmts, "PRAGMA synchronous = "+strings.ToUpper(c.Synchronous))
	}
	return stmts
}
