package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type schemaMigration struct {
	version     string
	description string
	statements  []string
}

// migrations are applied in order; each runs in its own transaction and is
// recorded in schema_migrations.
var migrations = []schemaMigration{
	{
		version:     "001",
		description: "initial_schema",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS rooms (
				position INTEGER NOT NULL,
				id       TEXT    NOT NULL PRIMARY KEY COLLATE NOCASE,
				name     TEXT    NOT NULL,
				capacity INTEGER NOT NULL CHECK (capacity > 0)
			)`,
			`CREATE TABLE IF NOT EXISTS bookings (
				position   INTEGER NOT NULL,
				id         TEXT    NOT NULL PRIMARY KEY,
				room_id    TEXT    NOT NULL,
				date       TEXT    NOT NULL,
				start_time TEXT    NOT NULL,
				end_time   TEXT    NOT NULL,
				requester  TEXT    NOT NULL,
				purpose    TEXT    NOT NULL,
				group_name TEXT    NOT NULL DEFAULT '',
				remarks    TEXT    NOT NULL DEFAULT '',
				created_at TEXT    NOT NULL,
				CHECK (start_time < end_time)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_bookings_room_date ON bookings (room_id COLLATE NOCASE, date)`,
			`CREATE TABLE IF NOT EXISTS snapshot_meta (
				id       INTEGER NOT NULL PRIMARY KEY CHECK (id = 1),
				saved_at TEXT    NOT NULL
			)`,
		},
	},
}

func migrate(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.DB().ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT NOT NULL PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("failed to initialize schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			var applied int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, m.version).Scan(&applied); err != nil {
				return err
			}
			if applied > 0 {
				return nil
			}
			for _, stmt := range m.statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
				m.version, time.Now().UTC().Format(time.RFC3339))
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s (%s): %w", m.version, m.description, err)
		}
	}

	return nil
}
