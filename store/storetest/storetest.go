// Package storetest holds the behaviour every calendar.Store must share.
// Implementations call Run from their own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/rolling"
)

func date(s string) rolling.Date { return rolling.MustParseDate(s) }

func desk() calendar.Definition {
	return calendar.Definition{
		ID:      "desk",
		Name:    "FX desk",
		Base:    "us",
		Weekend: []string{"friday", "saturday"},
		Holidays: []calendar.Holiday{
			{ID: "h2", Date: date("2024-12-24"), Name: "Christmas Eve", Recurring: true},
			{ID: "h1", Date: date("2024-06-12"), Name: "Offsite"},
		},
	}
}

// Run exercises store through the full calendar.Store contract. newStore
// must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) calendar.Store) {
	ctx := context.Background()

	t.Run("save and get calendar", func(t *testing.T) {
		s := newStore(t)

		// GIVEN
		require.NoError(t, s.SaveCalendar(ctx, desk()))

		// WHEN
		got, err := s.GetCalendar(ctx, "desk")
		require.NoError(t, err)

		// THEN
		assert.Equal(t, "FX desk", got.Name)
		assert.Equal(t, "us", got.Base)
		assert.Equal(t, []string{"friday", "saturday"}, got.Weekend)
		require.Len(t, got.Holidays, 2)
		assert.Equal(t, "h1", got.Holidays[0].ID, "holidays are ordered by date")
		assert.Equal(t, "desk", got.Holidays[0].CalendarID)
		assert.True(t, got.Holidays[1].Recurring)
	})

	t.Run("weekend nil and empty are distinct", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveCalendar(ctx, calendar.Definition{ID: "default", Name: "d"}))
		require.NoError(t, s.SaveCalendar(ctx, calendar.Definition{ID: "open", Name: "o", Weekend: []string{}}))

		def, err := s.GetCalendar(ctx, "default")
		require.NoError(t, err)
		assert.Nil(t, def.Weekend)

		open, err := s.GetCalendar(ctx, "open")
		require.NoError(t, err)
		assert.NotNil(t, open.Weekend)
		assert.Empty(t, open.Weekend)
	})

	t.Run("save replaces holidays", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveCalendar(ctx, desk()))

		updated := desk()
		updated.Name = "Renamed"
		updated.Holidays = []calendar.Holiday{{ID: "h3", Date: date("2025-01-02"), Name: "Bridge"}}
		require.NoError(t, s.SaveCalendar(ctx, updated))

		got, err := s.GetCalendar(ctx, "desk")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		require.Len(t, got.Holidays, 1)
		assert.Equal(t, "h3", got.Holidays[0].ID)
	})

	t.Run("list calendars ordered by id", func(t *testing.T) {
		s := newStore(t)
		empty, err := s.ListCalendars(ctx)
		require.NoError(t, err)
		assert.Empty(t, empty)

		require.NoError(t, s.SaveCalendar(ctx, calendar.Definition{ID: "zeta", Name: "z"}))
		require.NoError(t, s.SaveCalendar(ctx, desk()))

		defs, err := s.ListCalendars(ctx)
		require.NoError(t, err)
		require.Len(t, defs, 2)
		assert.Equal(t, "desk", defs[0].ID)
		assert.Len(t, defs[0].Holidays, 2)
		assert.Equal(t, "zeta", defs[1].ID)
	})

	t.Run("missing calendar", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetCalendar(ctx, "nope")
		assert.ErrorIs(t, err, calendar.ErrCalendarNotFound)
		assert.ErrorIs(t, s.DeleteCalendar(ctx, "nope"), calendar.ErrCalendarNotFound)
		_, err = s.ListHolidays(ctx, "nope")
		assert.ErrorIs(t, err, calendar.ErrCalendarNotFound)
		err = s.SaveHoliday(ctx, calendar.Holiday{ID: "x", CalendarID: "nope", Date: date("2024-01-01"), Name: "x"})
		assert.ErrorIs(t, err, calendar.ErrCalendarNotFound)
	})

	t.Run("delete calendar removes holidays", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveCalendar(ctx, desk()))
		require.NoError(t, s.DeleteCalendar(ctx, "desk"))

		_, err := s.GetCalendar(ctx, "desk")
		assert.ErrorIs(t, err, calendar.ErrCalendarNotFound)

		// Re-creating the calendar starts with no holidays.
		require.NoError(t, s.SaveCalendar(ctx, calendar.Definition{ID: "desk", Name: "again"}))
		hs, err := s.ListHolidays(ctx, "desk")
		require.NoError(t, err)
		assert.Empty(t, hs)
	})

	t.Run("save and delete holiday", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveCalendar(ctx, desk()))

		// WHEN
		h := calendar.Holiday{ID: "h0", CalendarID: "desk", Date: date("2024-01-15"), Name: "MLK"}
		require.NoError(t, s.SaveHoliday(ctx, h))

		// THEN
		hs, err := s.ListHolidays(ctx, "desk")
		require.NoError(t, err)
		require.Len(t, hs, 3)
		assert.Equal(t, "h0", hs[0].ID)

		require.NoError(t, s.DeleteHoliday(ctx, "desk", "h0"))
		assert.ErrorIs(t, s.DeleteHoliday(ctx, "desk", "h0"), calendar.ErrHolidayNotFound)

		hs, err = s.ListHolidays(ctx, "desk")
		require.NoError(t, err)
		assert.Len(t, hs, 2)
	})

	t.Run("duplicate holiday", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveCalendar(ctx, desk()))

		dup := calendar.Holiday{ID: "other", CalendarID: "desk", Date: date("2024-06-12"), Name: "Offsite"}
		assert.ErrorIs(t, s.SaveHoliday(ctx, dup), calendar.ErrDuplicateHoliday)

		sameDay := calendar.Holiday{ID: "other", CalendarID: "desk", Date: date("2024-06-12"), Name: "Another"}
		assert.NoError(t, s.SaveHoliday(ctx, sameDay), "same date with a different name is allowed")

		def := desk()
		def.Holidays = append(def.Holidays, calendar.Holiday{ID: "h9", Date: date("2024-06-12"), Name: "Offsite"})
		assert.ErrorIs(t, s.SaveCalendar(ctx, def), calendar.ErrDuplicateHoliday)

		got, err := s.GetCalendar(ctx, "desk")
		require.NoError(t, err)
		assert.Len(t, got.Holidays, 3, "failed save leaves the previous state")
	})

	t.Run("holiday ids are scoped to their calendar", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveCalendar(ctx, desk()))

		// GIVEN: a second calendar reusing the desk's holiday IDs
		other := calendar.Definition{
			ID:   "other",
			Name: "Other",
			Holidays: []calendar.Holiday{
				{ID: "h1", Date: date("2024-03-01"), Name: "Founders Day"},
			},
		}

		// WHEN / THEN
		require.NoError(t, s.SaveCalendar(ctx, other))
		require.NoError(t, s.SaveHoliday(ctx, calendar.Holiday{ID: "h2", CalendarID: "other", Date: date("2024-04-01"), Name: "Spring"}))

		hs, err := s.ListHolidays(ctx, "other")
		require.NoError(t, err)
		assert.Len(t, hs, 2)

		// Deleting from one calendar leaves the other untouched.
		require.NoError(t, s.DeleteHoliday(ctx, "other", "h1"))
		got, err := s.GetCalendar(ctx, "desk")
		require.NoError(t, err)
		assert.Len(t, got.Holidays, 2)

		// Within one calendar an ID is used once.
		reused := calendar.Holiday{ID: "h1", CalendarID: "desk", Date: date("2024-09-02"), Name: "Labour Day"}
		assert.ErrorIs(t, s.SaveHoliday(ctx, reused), calendar.ErrDuplicateHoliday)

		def := desk()
		def.Holidays = append(def.Holidays, calendar.Holiday{ID: "h1", Date: date("2024-09-02"), Name: "Labour Day"})
		assert.ErrorIs(t, s.SaveCalendar(ctx, def), calendar.ErrDuplicateHoliday)
	})

	t.Run("stored definition builds", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveCalendar(ctx, desk()))

		reg := calendar.NewRegistry()
		require.NoError(t, reg.Load(ctx, s))

		cal, err := reg.Get("desk")
		require.NoError(t, err)
		assert.False(t, cal.IsBusinessDay(date("2024-06-12")))
		assert.False(t, cal.IsBusinessDay(date("2030-12-24")))
		assert.True(t, cal.IsBusinessDay(date("2024-06-09")))
	})
}
