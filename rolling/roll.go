/*
roll.go - Convention engine

PURPOSE:
  Maps (date, convention, calendar) to the adjusted payment date.

DISPATCH TABLE:
  Actual             d
  Following          next business day on or after d
  Preceding          previous business day on or before d
  ModifiedFollowing  Following, unless it leaves d's month -> Preceding
  ModifiedPreceding  Preceding, unless it leaves d's month -> Following
  ModifiedRolling    step forward a day at a time while not a business day

  "Leaves d's month" compares year and month of the result with d, never a
  day count. When the first scan of a modified convention finds nothing
  inside the scan window, the other direction is tried and its result is
  kept only if it stays in d's month.

  The switch names every convention. Its default branch only sees integers
  outside the enumeration and returns ErrUnknownConvention.

EXAMPLE (Saturday/Sunday calendar):
  Roll(2023-12-31, ModifiedFollowing) -> Following gives 2024-01-01, which
  is a new month, so the result is Preceding: 2023-12-29.
*/
package rolling

// Roll adjusts d according to convention c over cal.
//
// The only errors are ErrNoBusinessDay (cal has no business day inside the
// scan window or the supported date range) and ErrUnknownConvention (c is not
// a valid Convention).
func Roll(d Date, c Convention, cal Calendar) (Date, error) {
	return roll(d, c, cal, DefaultScanLimit)
}

func roll(d Date, c Convention, cal Calendar, limit int) (Date, error) {
	switch c {
	case Actual:
		return rollActual(d)
	case Following:
		return rollFollowing(d, cal, limit)
	case ModifiedFollowing:
		return rollModifiedFollowing(d, cal, limit)
	case Preceding:
		return rollPreceding(d, cal, limit)
	case ModifiedPreceding:
		return rollModifiedPreceding(d, cal, limit)
	case ModifiedRolling:
		return rollModifiedRolling(d, cal, limit)
	default:
		return Date{}, unknownConventionError(int(c))
	}
}

func rollActual(d Date) (Date, error) {
	return d, nil
}

func rollFollowing(d Date, cal Calendar, limit int) (Date, error) {
	return scan(d, cal, Forward, limit)
}

func rollPreceding(d Date, cal Calendar, limit int) (Date, error) {
	return scan(d, cal, Backward, limit)
}

func rollModifiedFollowing(d Date, cal Calendar, limit int) (Date, error) {
	return rollModified(d, cal, limit, Forward, Backward)
}

func rollModifiedPreceding(d Date, cal Calendar, limit int) (Date, error) {
	return rollModified(d, cal, limit, Backward, Forward)
}

// rollModified scans in first and falls back to second when the result
// leaves d's month or first found nothing.
func rollModified(d Date, cal Calendar, limit int, first, second Direction) (Date, error) {
	primary, err := scan(d, cal, first, limit)
	if err == nil && primary.SameMonth(d) {
		return primary, nil
	}
	fallback, fallbackErr := scan(d, cal, second, limit)
	if err != nil {
		// Where the first scan would have landed is unknown, so only an
		// in-month fallback is an answer.
		if fallbackErr == nil && fallback.SameMonth(d) {
			return fallback, nil
		}
		return Date{}, err
	}
	return fallback, fallbackErr
}

func rollModifiedRolling(d Date, cal Calendar, limit int) (Date, error) {
	if limit <= 0 {
		limit = DefaultScanLimit
	}
	candidate := d
	for tested := 1; ; tested++ {
		if !candidate.InRange() {
			return Date{}, &RangeError{From: d, Direction: Forward}
		}
		if cal.IsBusinessDay(candidate) {
			return candidate, nil
		}
		if tested >= limit {
			return Date{}, &ScanLimitError{From: d, Direction: Forward, Limit: limit}
		}
		candidate = candidate.NextDay()
	}
}
