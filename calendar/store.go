/*
store.go - Persistence interface for custom calendars

PURPOSE:
  Custom calendar definitions and their holidays outlive the process. The
  Store is the boundary between the registry/API and the database.

CONTRACT:
  - SaveCalendar upserts the calendar and replaces its holiday list with
    def.Holidays in one atomic step
  - SaveHoliday adds a single holiday; a second holiday with the same
    (calendar, date, name) returns ErrDuplicateHoliday
  - Deleting a calendar deletes its holidays
  - Missing calendars/holidays return ErrCalendarNotFound/ErrHolidayNotFound

IMPLEMENTATIONS:
  - store/sqlite: SQLite, used by the server
  - store/memory: In-memory, used in tests and with --db ""
*/
package calendar

import "context"

// Store persists custom calendar definitions.
type Store interface {
	SaveCalendar(ctx context.Context, def Definition) error
	GetCalendar(ctx context.Context, id string) (Definition, error)
	ListCalendars(ctx context.Context) ([]Definition, error)
	DeleteCalendar(ctx context.Context, id string) error

	SaveHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, calendarID, holidayID string) error
	ListHolidays(ctx context.Context, calendarID string) ([]Holiday, error)
}
