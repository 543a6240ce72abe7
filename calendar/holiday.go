/*
holiday.go - Holiday tables and the HolidayCalendar oracle

PURPOSE:
  A HolidayCalendar is the configurable business-day oracle: a weekend mask,
  a list of holidays, and optionally a base calendar (a market calendar from
  market.go) whose holidays it inherits.

    IsBusinessDay(d) = !weekend(d) && !holiday(d) && !base.IsHoliday(d)

  Only the base's holidays are inherited, never its weekend, so a Friday/
  Saturday desk over "us" is open on Sundays. A base that cannot report
  holidays (any rolling.Calendar) falls back to base.IsBusinessDay.

RECURRING HOLIDAYS:
  A recurring holiday matches its month and day in every year, so one
  "12-25 Christmas Day" entry covers all years. A recurring 29 February only
  matches in leap years. Observed-day shifting (Saturday holiday observed on
  Friday) is not applied to custom holidays; market base calendars carry
  their own observance rules.

IMMUTABILITY:
  A HolidayCalendar is never mutated after NewHolidayCalendar returns, so it
  can be shared between goroutines. Adding a holiday means building a new
  calendar (see Registry).

SEE ALSO:
  - definition.go: Builds a HolidayCalendar from JSON/YAML
  - registry.go: Named calendars used by the API
*/
package calendar

import (
	"sort"
	"time"

	"github.com/warp/rolling-engine/rolling"
)

// Holiday is a closed date of a calendar.
type Holiday struct {
	ID         string       `json:"id,omitempty" yaml:"id,omitempty"`
	CalendarID string       `json:"calendar_id,omitempty" yaml:"calendar_id,omitempty"`
	Date       rolling.Date `json:"date" yaml:"date"`
	Name       string       `json:"name" yaml:"name"`
	Recurring  bool         `json:"recurring,omitempty" yaml:"recurring,omitempty"` // same month/day every year
}

// On returns the date the holiday falls on in year, and false if it does not
// occur in that year.
func (h Holiday) On(year int) (rolling.Date, bool) {
	if !h.Recurring {
		return h.Date, h.Date.Year() == year
	}
	d := rolling.NewDate(year, h.Date.Month(), h.Date.Day())
	// 29 February normalizes to 1 March in common years.
	return d, d.Month() == h.Date.Month()
}

// holidayChecker is a calendar that can report holidays separately from its
// weekend. Market, Joint and HolidayCalendar implement it.
type holidayChecker interface {
	IsHoliday(d rolling.Date) bool
}

type monthDay struct {
	month time.Month
	day   int
}

// HolidayCalendar is a weekend mask plus holidays, optionally layered on a
// base calendar.
type HolidayCalendar struct {
	id        string
	name      string
	weekend   WeekendMask
	base      rolling.Calendar
	baseID    string
	holidays  []Holiday
	fixed     map[rolling.Date]Holiday
	recurring map[monthDay]Holiday
}

// NewHolidayCalendar builds a calendar. base may be nil.
func NewHolidayCalendar(id, name string, weekend WeekendMask, base rolling.Calendar, holidays []Holiday) *HolidayCalendar {
	c := &HolidayCalendar{
		id:        id,
		name:      name,
		weekend:   weekend,
		base:      base,
		holidays:  make([]Holiday, 0, len(holidays)),
		fixed:     make(map[rolling.Date]Holiday),
		recurring: make(map[monthDay]Holiday),
	}
	for _, h := range holidays {
		h.CalendarID = id
		c.holidays = append(c.holidays, h)
		if h.Recurring {
			c.recurring[monthDay{h.Date.Month(), h.Date.Day()}] = h
		} else {
			c.fixed[h.Date] = h
		}
	}
	sort.SliceStable(c.holidays, func(i, j int) bool {
		return c.holidays[i].Date.Before(c.holidays[j].Date)
	})
	return c
}

func (c *HolidayCalendar) ID() string           { return c.id }
func (c *HolidayCalendar) Name() string         { return c.name }
func (c *HolidayCalendar) Weekend() WeekendMask { return c.weekend }
func (c *HolidayCalendar) BaseID() string       { return c.baseID }

// IsWeekend reports whether d falls on a weekend day of this calendar.
func (c *HolidayCalendar) IsWeekend(d rolling.Date) bool {
	return c.weekend.Contains(d.Weekday())
}

// HolidayOn returns this calendar's own holiday on d, if any. Base calendar
// closures are not reported.
func (c *HolidayCalendar) HolidayOn(d rolling.Date) (Holiday, bool) {
	if h, ok := c.fixed[d]; ok {
		return h, true
	}
	h, ok := c.recurring[monthDay{d.Month(), d.Day()}]
	return h, ok
}

// IsHoliday reports whether d is one of this calendar's own holidays.
func (c *HolidayCalendar) IsHoliday(d rolling.Date) bool {
	_, ok := c.HolidayOn(d)
	return ok
}

// IsBusinessDay implements rolling.Calendar.
func (c *HolidayCalendar) IsBusinessDay(d rolling.Date) bool {
	if c.IsWeekend(d) || c.IsHoliday(d) {
		return false
	}
	switch base := c.base.(type) {
	case nil:
		return true
	case holidayChecker:
		return !base.IsHoliday(d)
	default:
		return base.IsBusinessDay(d)
	}
}

// Holidays returns the calendar's own holidays as stored, ordered by date.
func (c *HolidayCalendar) Holidays() []Holiday {
	out := make([]Holiday, len(c.holidays))
	copy(out, c.holidays)
	return out
}

// HolidaysIn returns the holidays occurring in year with recurring entries
// resolved to that year, ordered by date.
func (c *HolidayCalendar) HolidaysIn(year int) []Holiday {
	var out []Holiday
	for _, h := range c.holidays {
		d, ok := h.On(year)
		if !ok {
			continue
		}
		h.Date = d
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// With returns a copy of c with extra holidays added.
func (c *HolidayCalendar) With(holidays ...Holiday) *HolidayCalendar {
	all := append(c.Holidays(), holidays...)
	next := NewHolidayCalendar(c.id, c.name, c.weekend, c.base, all)
	next.baseID = c.baseID
	return next
}

// Without returns a copy of c with the holiday identified by id removed.
func (c *HolidayCalendar) Without(id string) *HolidayCalendar {
	kept := make([]Holiday, 0, len(c.holidays))
	for _, h := range c.holidays {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	next := NewHolidayCalendar(c.id, c.name, c.weekend, c.base, kept)
	next.baseID = c.baseID
	return next
}
