// Package sqlite persists the reservation snapshot in a SQLite database using
// the pure-Go modernc.org/sqlite driver.
//
// Rooms and bookings are stored in their own tables with an explicit position
// column so that Load returns them in the order they were saved. Every Save
// rewrites both tables inside a single transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/room-reservations/internal/persistence"
)

// Store implements persistence.SnapshotStore on top of a SQLite database.
type Store struct {
	pool *ConnectionPool
	now  func() time.Time
}

// Open connects to the database described by cfg and applies pending schema migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	pool, err := NewConnectionPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, pool); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return &Store{pool: pool, now: time.Now}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Close()
}

// Load reads the last saved snapshot.
func (s *Store) Load(ctx context.Context) (persistence.Snapshot, error) {
	snapshot := persistence.Snapshot{
		Rooms:    []persistence.Room{},
		Bookings: []persistence.Booking{},
	}

	err := s.pool.WithReadOnlyTransaction(ctx, func(tx *sql.Tx) error {
		var savedAt string
		if err := tx.QueryRowContext(ctx, `SELECT saved_at FROM snapshot_meta WHERE id = 1`).Scan(&savedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return persistence.ErrNotFound
			}
			return err
		}

		rooms, err := loadRooms(ctx, tx)
		if err != nil {
			return err
		}
		bookings, err := loadBookings(ctx, tx)
		if err != nil {
			return err
		}
		snapshot.Rooms = rooms
		snapshot.Bookings = bookings
		return nil
	})
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Snapshot{}, err
		}
		return persistence.Snapshot{}, fmt.Errorf("sqlite: load snapshot: %w", err)
	}

	return snapshot, nil
}

func loadRooms(ctx context.Context, tx *sql.Tx) ([]persistence.Room, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, capacity FROM rooms ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := []persistence.Room{}
	for rows.Next() {
		var room persistence.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func loadBookings(ctx context.Context, tx *sql.Tx) ([]persistence.Booking, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, room_id, date, start_time, end_time, requester, purpose, group_name, remarks, created_at
		FROM bookings
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []persistence.Booking{}
	for rows.Next() {
		var (
			booking   persistence.Booking
			createdAt string
		)
		if err := rows.Scan(
			&booking.ID,
			&booking.RoomID,
			&booking.Date,
			&booking.Start,
			&booking.End,
			&booking.Requester,
			&booking.Purpose,
			&booking.Group,
			&booking.Remarks,
			&createdAt,
		); err != nil {
			return nil, err
		}
		if booking.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("%w: booking %s created_at: %v", persistence.ErrCorrupt, booking.ID, err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// Save replaces the stored rooms and bookings with snapshot in one transaction.
func (s *Store) Save(ctx context.Context, snapshot persistence.Snapshot) error {
	err := s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
			return err
		}

		for i, room := range snapshot.Rooms {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO rooms (position, id, name, capacity) VALUES (?, ?, ?, ?)`,
				i, room.ID, room.Name, room.Capacity,
			); err != nil {
				return fmt.Errorf("insert room %s: %w", room.ID, err)
			}
		}

		for i, booking := range snapshot.Bookings {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO bookings (position, id, room_id, date, start_time, end_time, requester, purpose, group_name, remarks, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				i,
				booking.ID,
				booking.RoomID,
				booking.Date,
				booking.Start,
				booking.End,
				booking.Requester,
				booking.Purpose,
				booking.Group,
				booking.Remarks,
				booking.CreatedAt.UTC().Format(time.RFC3339Nano),
			); err != nil {
				return fmt.Errorf("insert booking %s: %w", booking.ID, err)
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_meta (id, saved_at) VALUES (1, ?)
			 ON CONFLICT (id) DO UPDATE SET saved_at = excluded.saved_at`,
			s.now().UTC().Format(time.RFC3339Nano),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("sqlite: save snapshot: %w", err)
	}
	return nil
}
