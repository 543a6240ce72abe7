/*
Package sqlite provides a SQLite-backed implementation of calendar.Store.

PURPOSE:
  Persists custom calendar definitions and their holidays so the server can
  rebuild its registry on restart. Built-in market calendars are code, not
  data, and never reach this store.

KEY TABLES:
  calendars: One row per custom calendar (id, name, base, weekend)
  holidays:  Holidays keyed by calendar, cascade-deleted with it

WEEKEND COLUMN:
  weekend_json is NULL for the default Saturday/Sunday weekend and a JSON
  array of weekday names otherwise, so "[]" (no weekend) survives a round
  trip.

CONSTRAINTS:
  - PRIMARY KEY (calendar_id, id) on holidays: holiday IDs are unique per
    calendar, so two calendars may reuse a client-supplied ID
  - UNIQUE (calendar_id, date, name) on holidays
  - Violations of either are reported as calendar.ErrDuplicateHoliday
  - FOREIGN KEY holidays.calendar_id with ON DELETE CASCADE

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite allows a single writer, so
  writes are serialized here rather than surfacing SQLITE_BUSY.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/rolling.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  registry := calendar.NewRegistry()
  err = registry.Load(ctx, store)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - calendar/store.go: Interface definition
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/rolling"
)

// Store implements calendar.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ calendar.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calendars (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		base TEXT NOT NULL DEFAULT '',
		weekend_json TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT NOT NULL,
		calendar_id TEXT NOT NULL REFERENCES calendars(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		PRIMARY KEY (calendar_id, id),
		UNIQUE(calendar_id, date, name)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_calendar_date
		ON holidays(calendar_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CALENDARS
// =============================================================================

// SaveCalendar upserts def and replaces its holidays in one transaction.
func (s *Store) SaveCalendar(ctx context.Context, def calendar.Definition) error {
	weekend, err := encodeWeekend(def.Weekend)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO calendars (id, name, base, weekend_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			base = excluded.base,
			weekend_json = excluded.weekend_json,
			updated_at = excluded.updated_at
	`, def.ID, def.Name, def.Base, weekend, now, now)
	if err != nil {
		return fmt.Errorf("failed to save calendar %q: %w", def.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM holidays WHERE calendar_id = ?", def.ID); err != nil {
		return fmt.Errorf("failed to clear holidays of %q: %w", def.ID, err)
	}
	for _, h := range def.Holidays {
		h.CalendarID = def.ID
		if err := insertHoliday(ctx, tx, h); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetCalendar returns the definition with its holidays.
func (s *Store) GetCalendar(ctx context.Context, id string) (calendar.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, base, weekend_json FROM calendars WHERE id = ?", id)
	def, err := scanCalendar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return calendar.Definition{}, fmt.Errorf("%w: %q", calendar.ErrCalendarNotFound, id)
	}
	if err != nil {
		return calendar.Definition{}, err
	}

	def.Holidays, err = s.queryHolidays(ctx, id)
	if err != nil {
		return calendar.Definition{}, err
	}
	return def, nil
}

// ListCalendars returns all definitions ordered by ID.
func (s *Store) ListCalendars(ctx context.Context) ([]calendar.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, base, weekend_json FROM calendars ORDER BY id")
	if err != nil {
		return nil, err
	}

	defs := []calendar.Definition{}
	for rows.Next() {
		def, err := scanCalendar(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range defs {
		defs[i].Holidays, err = s.queryHolidays(ctx, defs[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// DeleteCalendar removes a calendar; its holidays go with it.
func (s *Store) DeleteCalendar(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM calendars WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", calendar.ErrCalendarNotFound, id)
	}
	return nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday adds a holiday to an existing calendar.
func (s *Store) SaveHoliday(ctx context.Context, h calendar.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireCalendar(ctx, h.CalendarID); err != nil {
		return err
	}
	return insertHoliday(ctx, s.db, h)
}

// DeleteHoliday removes one holiday of a calendar.
func (s *Store) DeleteHoliday(ctx context.Context, calendarID, holidayID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireCalendar(ctx, calendarID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM holidays WHERE calendar_id = ? AND id = ?", calendarID, holidayID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", calendar.ErrHolidayNotFound, holidayID)
	}
	return nil
}

// ListHolidays returns a calendar's holidays ordered by date.
func (s *Store) ListHolidays(ctx context.Context, calendarID string) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireCalendar(ctx, calendarID); err != nil {
		return nil, err
	}
	return s.queryHolidays(ctx, calendarID)
}

func (s *Store) requireCalendar(ctx context.Context, id string) error {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendars WHERE id = ?", id).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", calendar.ErrCalendarNotFound, id)
	}
	return nil
}

func (s *Store) queryHolidays(ctx context.Context, calendarID string) ([]calendar.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, calendar_id, date, name, recurring
		FROM holidays
		WHERE calendar_id = ?
		ORDER BY date ASC, name ASC
	`, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := []calendar.Holiday{}
	for rows.Next() {
		var h calendar.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &h.CalendarID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		h.Date, err = rolling.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", h.ID, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// Helper functions

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func insertHoliday(ctx context.Context, db execer, h calendar.Holiday) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO holidays (id, calendar_id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, h.ID, h.CalendarID, h.Date.String(), h.Name, h.Recurring, time.Now().UTC().Format(time.RFC3339))
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: %q (%s %q)", calendar.ErrDuplicateHoliday, h.ID, h.Date, h.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to save holiday %q: %w", h.Name, err)
	}
	return nil
}

func scanCalendar(row scanner) (calendar.Definition, error) {
	var def calendar.Definition
	var weekend sql.NullString
	if err := row.Scan(&def.ID, &def.Name, &def.Base, &weekend); err != nil {
		return calendar.Definition{}, err
	}
	if weekend.Valid {
		if err := json.Unmarshal([]byte(weekend.String), &def.Weekend); err != nil {
			return calendar.Definition{}, fmt.Errorf("calendar %q: bad weekend: %w", def.ID, err)
		}
		if def.Weekend == nil {
			def.Weekend = []string{}
		}
	}
	return def, nil
}

func encodeWeekend(names []string) (sql.NullString, error) {
	if names == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(names)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}
