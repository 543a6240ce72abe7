package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/warp/rolling-engine/rolling"
)

// WeekendMask marks the weekdays that are never business days.
type WeekendMask [7]bool

// SaturdaySunday is the default weekend.
var SaturdaySunday = NewWeekendMask(time.Saturday, time.Sunday)

// NewWeekendMask returns a mask closing the given weekdays.
func NewWeekendMask(days ...time.Weekday) WeekendMask {
	var m WeekendMask
	for _, d := range days {
		m[d] = true
	}
	return m
}

// ParseWeekendMask parses weekday names ("saturday", "Sun", ...). A nil
// slice yields SaturdaySunday; an empty non-nil slice yields no weekend at
// all (seven-day markets).
func ParseWeekendMask(names []string) (WeekendMask, error) {
	if names == nil {
		return SaturdaySunday, nil
	}
	var m WeekendMask
	for _, name := range names {
		wd, err := parseWeekday(name)
		if err != nil {
			return WeekendMask{}, err
		}
		m[wd] = true
	}
	return m, nil
}

// Contains reports whether wd is a weekend day.
func (m WeekendMask) Contains(wd time.Weekday) bool { return m[wd] }

// Days returns the weekend days from Monday to Sunday.
func (m WeekendMask) Days() []time.Weekday {
	var days []time.Weekday
	for i := 1; i <= 7; i++ {
		wd := time.Weekday(i % 7)
		if m[wd] {
			days = append(days, wd)
		}
	}
	return days
}

// Names returns lower-case weekday names, never nil.
func (m WeekendMask) Names() []string {
	names := []string{}
	for _, wd := range m.Days() {
		names = append(names, strings.ToLower(wd.String()))
	}
	return names
}

// Weekends is the calendar where every weekday is a business day and
// Saturday and Sunday are not. It has no holidays.
type Weekends struct{}

func (Weekends) IsBusinessDay(d rolling.Date) bool { return !d.IsWeekend() }

var weekdayNames = func() map[string]time.Weekday {
	names := make(map[string]time.Weekday, 14)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := strings.ToLower(wd.String())
		names[full] = wd
		names[full[:3]] = wd
	}
	return names
}()

func parseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
	}
	return wd, nil
}
