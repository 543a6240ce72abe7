package rolling

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar date without time-of-day or location
// =============================================================================

// DateLayout is the textual form of a Date (ISO 8601 calendar date).
const DateLayout = "2006-01-02"

// MinDate and MaxDate bound the dates that have a YYYY-MM-DD form.
var (
	MinDate = Date{year: 1, month: time.January, day: 1}
	MaxDate = Date{year: 9999, month: time.December, day: 31}
)

// Date is a calendar date. It is comparable, so it can be used with == and
// as a map key. The zero value is 0000-00-00 and reports IsZero.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate returns the date for year, month, day. Out-of-range values are
// normalized the way time.Date does (2024-02-30 becomes 2024-03-01).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate parses a YYYY-MM-DD string. Years run from 0001 to 9999.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q (use YYYY-MM-DD)", ErrInvalidDate, s)
	}
	d := DateOf(t)
	if !d.InRange() {
		return Date{}, fmt.Errorf("%w: %q is outside %s..%s", ErrInvalidDate, s, MinDate, MaxDate)
	}
	return d, nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Clock abstracts time.Now so "today" is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Today returns the current date according to clock.
func Today(clock Clock) Date {
	if clock == nil {
		clock = RealClock{}
	}
	return DateOf(clock.Now())
}

// Properties
func (d Date) Year() int             { return d.year }
func (d Date) Month() time.Month     { return d.month }
func (d Date) Day() int              { return d.day }
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Date) IsZero() bool          { return d == Date{} }
func (d Date) InRange() bool         { return !d.Before(MinDate) && !d.After(MaxDate) }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Time returns midnight UTC on d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }
func (d Date) NextDay() Date      { return d.AddDays(1) }
func (d Date) PreviousDay() Date  { return d.AddDays(-1) }

// DaysUntil returns the signed number of calendar days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// Comparison
func (d Date) Equal(other Date) bool         { return d == other }
func (d Date) Before(other Date) bool        { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool         { return d.Compare(other) > 0 }
func (d Date) BeforeOrEqual(other Date) bool { return d.Compare(other) <= 0 }
func (d Date) AfterOrEqual(other Date) bool  { return d.Compare(other) >= 0 }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.year != other.year:
		return sign(d.year - other.year)
	case d.month != other.month:
		return sign(int(d.month) - int(other.month))
	default:
		return sign(d.day - other.day)
	}
}

// SameMonth reports whether d and other fall in the same calendar month of
// the same year.
func (d Date) SameMonth(other Date) bool {
	return d.year == other.year && d.month == other.month
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
