/*
errors.go - Error types for the rolling engine

PURPOSE:
  Every convention is total over a well-formed calendar, so the engine has
  very few failure modes. The ones that exist are collected here:

  1. Scan errors   - a calendar produced no business day inside the scan
                     window (bad holiday table, all-closed weekend mask), or
                     the scan ran off the 0001..9999 year range
  2. Input errors  - unparseable dates, unknown convention names or values
  3. Batch errors  - one element of a batch failed; carries its index

USAGE:
    rolled, err := roller.Roll(date, rolling.ModifiedFollowing)
    if errors.Is(err, rolling.ErrNoBusinessDay) {
        // calendar is misconfigured
    }

SEE ALSO:
  - scan.go: Produces ScanLimitError and RangeError
  - batch.go: Produces BatchError
*/
package rolling

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoBusinessDay is returned when a day scan exhausts its limit without
	// the calendar reporting a business day.
	ErrNoBusinessDay = errors.New("no business day within scan limit")

	// ErrUnknownConvention is returned for convention names or values outside
	// the six supported conventions.
	ErrUnknownConvention = errors.New("unknown rolling convention")

	// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrDateOutOfRange is returned when a scan would leave MinDate..MaxDate.
	ErrDateOutOfRange = errors.New("date out of range")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// Direction of a day scan.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// ScanLimitError reports a scan that gave up.
type ScanLimitError struct {
	From      Date
	Direction Direction
	Limit     int
}

func (e *ScanLimitError) Error() string {
	return fmt.Sprintf("no business day within %d days %s of %s", e.Limit, e.Direction, e.From)
}

func (e *ScanLimitError) Unwrap() error {
	return ErrNoBusinessDay
}

// RangeError reports a scan that ran past MinDate or MaxDate before finding
// a business day. It matches both ErrDateOutOfRange and ErrNoBusinessDay.
type RangeError struct {
	From      Date
	Direction Direction
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("no business day %s of %s within %s..%s", e.Direction, e.From, MinDate, MaxDate)
}

func (e *RangeError) Unwrap() []error {
	return []error{ErrDateOutOfRange, ErrNoBusinessDay}
}

// BatchError identifies the element of a batch that failed.
type BatchError struct {
	Index int
	Date  Date
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("rolling dates[%d] (%s): %v", e.Index, e.Date, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

func unknownConventionError(v any) error {
	return fmt.Errorf("%w: %v", ErrUnknownConvention, v)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownConvention) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPeriod)
}
