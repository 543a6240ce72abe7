package calendar

import "github.com/warp/rolling-engine/rolling"

// Joint is open only when every member calendar is open, e.g. a USD/EUR
// swap settling on US and TARGET business days.
type Joint []rolling.Calendar

func (j Joint) IsBusinessDay(d rolling.Date) bool {
	for _, c := range j {
		if !c.IsBusinessDay(d) {
			return false
		}
	}
	return true
}

// IsHoliday reports whether any member has a holiday on d. Members that
// cannot report holidays are ignored.
func (j Joint) IsHoliday(d rolling.Date) bool {
	for _, c := range j {
		if hc, ok := c.(holidayChecker); ok && hc.IsHoliday(d) {
			return true
		}
	}
	return false
}
