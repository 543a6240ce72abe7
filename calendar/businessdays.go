package calendar

import (
	"fmt"

	"github.com/warp/rolling-engine/rolling"
)

// BusinessDays returns the business days of p in order.
func BusinessDays(cal rolling.Calendar, p rolling.Period) ([]rolling.Date, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	days := []rolling.Date{}
	for _, d := range p.Days() {
		if cal.IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days, nil
}

// CountBusinessDays returns the number of business days in p.
func CountBusinessDays(cal rolling.Calendar, p rolling.Period) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	n := 0
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.NextDay() {
		if cal.IsBusinessDay(d) {
			n++
		}
	}
	return n, nil
}

// AddBusinessDays moves n business days away from d. With n == 0 the result
// is d rolled Following; otherwise d itself is not counted, so adding 1 to a
// Friday gives the next Monday on a Saturday/Sunday calendar.
func AddBusinessDays(d rolling.Date, n int, cal rolling.Calendar) (rolling.Date, error) {
	if n == 0 {
		return rolling.NextBusinessDay(d, cal)
	}
	step := 1
	if n < 0 {
		step, n = -1, -n
	}
	current := d
	for remaining := n; remaining > 0; remaining-- {
		next := current.AddDays(step)
		var err error
		if step > 0 {
			current, err = rolling.NextBusinessDay(next, cal)
		} else {
			current, err = rolling.PreviousBusinessDay(next, cal)
		}
		if err != nil {
			return rolling.Date{}, fmt.Errorf("adding %d business days to %s: %w", n*step, d, err)
		}
	}
	return current, nil
}
