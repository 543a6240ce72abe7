// Package memory provides an in-memory calendar.Store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/rolling"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	calendars map[string]calendar.Definition
	holidays  map[string][]calendar.Holiday
}

type holidayKey struct {
	date rolling.Date
	name string
}

var _ calendar.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		calendars: make(map[string]calendar.Definition),
		holidays:  make(map[string][]calendar.Holiday),
	}
}

// SaveCalendar upserts def and replaces its holidays atomically.
func (s *Store) SaveCalendar(_ context.Context, def calendar.Definition) error {
	holidays := make([]calendar.Holiday, 0, len(def.Holidays))
	seen := make(map[holidayKey]bool, len(def.Holidays))
	seenIDs := make(map[string]bool, len(def.Holidays))
	for _, h := range def.Holidays {
		k := holidayKey{h.Date, h.Name}
		if seen[k] || seenIDs[h.ID] {
			return duplicateHoliday(h)
		}
		seen[k] = true
		seenIDs[h.ID] = true
		h.CalendarID = def.ID
		holidays = append(holidays, h)
	}
	sortHolidays(holidays)

	def.Holidays = nil
	def.Weekend = cloneStrings(def.Weekend)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendars[def.ID] = def
	s.holidays[def.ID] = holidays
	return nil
}

func (s *Store) GetCalendar(_ context.Context, id string) (calendar.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(id)
}

func (s *Store) getLocked(id string) (calendar.Definition, error) {
	def, ok := s.calendars[id]
	if !ok {
		return calendar.Definition{}, fmt.Errorf("%w: %q", calendar.ErrCalendarNotFound, id)
	}
	def.Weekend = cloneStrings(def.Weekend)
	def.Holidays = append([]calendar.Holiday{}, s.holidays[id]...)
	return def, nil
}

func (s *Store) ListCalendars(_ context.Context) ([]calendar.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.calendars))
	for id := range s.calendars {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	defs := make([]calendar.Definition, 0, len(ids))
	for _, id := range ids {
		def, _ := s.getLocked(id)
		defs = append(defs, def)
	}
	return defs, nil
}

// DeleteCalendar removes a calendar and its holidays.
func (s *Store) DeleteCalendar(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.calendars[id]; !ok {
		return fmt.Errorf("%w: %q", calendar.ErrCalendarNotFound, id)
	}
	delete(s.calendars, id)
	delete(s.holidays, id)
	return nil
}

func (s *Store) SaveHoliday(_ context.Context, h calendar.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.calendars[h.CalendarID]; !ok {
		return fmt.Errorf("%w: %q", calendar.ErrCalendarNotFound, h.CalendarID)
	}
	existing := s.holidays[h.CalendarID]
	for _, e := range existing {
		if e.ID == h.ID || (e.Date == h.Date && e.Name == h.Name) {
			return duplicateHoliday(h)
		}
	}

	// Sorted insert
	i := sort.Search(len(existing), func(i int) bool {
		return holidayLess(h, existing[i])
	})
	existing = append(existing, calendar.Holiday{})
	copy(existing[i+1:], existing[i:])
	existing[i] = h
	s.holidays[h.CalendarID] = existing
	return nil
}

func (s *Store) DeleteHoliday(_ context.Context, calendarID, holidayID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.calendars[calendarID]; !ok {
		return fmt.Errorf("%w: %q", calendar.ErrCalendarNotFound, calendarID)
	}
	existing := s.holidays[calendarID]
	for i, h := range existing {
		if h.ID == holidayID {
			s.holidays[calendarID] = append(existing[:i:i], existing[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", calendar.ErrHolidayNotFound, holidayID)
}

func (s *Store) ListHolidays(_ context.Context, calendarID string) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.calendars[calendarID]; !ok {
		return nil, fmt.Errorf("%w: %q", calendar.ErrCalendarNotFound, calendarID)
	}
	return append([]calendar.Holiday{}, s.holidays[calendarID]...), nil
}

// Holiday IDs are unique per calendar, as are (date, name) pairs.
func duplicateHoliday(h calendar.Holiday) error {
	return fmt.Errorf("%w: %q (%s %q)", calendar.ErrDuplicateHoliday, h.ID, h.Date, h.Name)
}

func sortHolidays(hs []calendar.Holiday) {
	sort.SliceStable(hs, func(i, j int) bool { return holidayLess(hs[i], hs[j]) })
}

func holidayLess(a, b calendar.Holiday) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.Name < b.Name
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
