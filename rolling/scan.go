/*
scan.go - Next/previous business day primitives

PURPOSE:
  The conventions are built from two scans over a Calendar:

    NextBusinessDay(d)     = first business day on or after d
    PreviousBusinessDay(d) = last business day on or before d

  Both test d itself first, so a date that is already a business day comes
  back unchanged. That is what makes Following and Preceding fixed points on
  business days.

BOUNDED SCANS:
  A calendar with no business days (every weekday masked, or a holiday table
  covering a whole range) would make an unbounded scan spin forever. Every
  scan stops after a limit of calendar days and returns ScanLimitError, which
  unwraps to ErrNoBusinessDay. DefaultScanLimit covers ten years.

  Scans also stop at MinDate and MaxDate, past which a date has no
  YYYY-MM-DD form, and return RangeError.
*/
package rolling

// DefaultScanLimit is the number of calendar days a scan inspects before
// giving up.
const DefaultScanLimit = 3660

// NextBusinessDay returns the first business day on or after d.
func NextBusinessDay(d Date, cal Calendar) (Date, error) {
	return scan(d, cal, Forward, DefaultScanLimit)
}

// PreviousBusinessDay returns the last business day on or before d.
func PreviousBusinessDay(d Date, cal Calendar) (Date, error) {
	return scan(d, cal, Backward, DefaultScanLimit)
}

// scan walks from d one calendar day at a time in dir, testing at most limit
// candidates (d included).
func scan(d Date, cal Calendar, dir Direction, limit int) (Date, error) {
	if limit <= 0 {
		limit = DefaultScanLimit
	}
	step := 1
	if dir == Backward {
		step = -1
	}
	candidate := d
	for i := 0; i < limit; i++ {
		if !candidate.InRange() {
			return Date{}, &RangeError{From: d, Direction: dir}
		}
		if cal.IsBusinessDay(candidate) {
			return candidate, nil
		}
		candidate = candidate.AddDays(step)
	}
	return Date{}, &ScanLimitError{From: d, Direction: dir, Limit: limit}
}
