package rolling

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is the inclusive range [Start, End].
type Period struct {
	Start Date
	End   Date
}

// Validate returns ErrInvalidPeriod when End is before Start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Contains returns true if d is within the period [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Len returns the number of calendar days in the period, or 0 if invalid.
func (p Period) Len() int {
	if p.Validate() != nil {
		return 0
	}
	return p.Start.DaysUntil(p.End) + 1
}

// Days returns every date in the period in order.
func (p Period) Days() []Date {
	days := make([]Date, 0, p.Len())
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.NextDay() {
		days = append(days, current)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// MonthOf returns the calendar month containing d.
func MonthOf(d Date) Period {
	start := NewDate(d.Year(), d.Month(), 1)
	return Period{Start: start, End: NewDate(d.Year(), d.Month()+1, 0)}
}
