package calendar

import "errors"

var (
	// ErrCalendarNotFound is returned when an ID names no calendar.
	ErrCalendarNotFound = errors.New("calendar not found")

	// ErrHolidayNotFound is returned when a holiday ID does not exist in the
	// calendar.
	ErrHolidayNotFound = errors.New("holiday not found")

	// ErrDuplicateHoliday is returned when a calendar already has a holiday
	// with the same date and name.
	ErrDuplicateHoliday = errors.New("duplicate holiday")

	// ErrBuiltinCalendar is returned when trying to replace or delete one of
	// the built-in calendars.
	ErrBuiltinCalendar = errors.New("built-in calendar cannot be modified")

	// ErrInvalidDefinition is returned for malformed calendar definitions.
	ErrInvalidDefinition = errors.New("invalid calendar definition")

	// ErrUnknownBase is returned when a definition names an unknown base
	// market calendar.
	ErrUnknownBase = errors.New("unknown base calendar")

	// ErrInvalidWeekday is returned for unrecognised weekday names.
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// IsNotFound returns true if the error indicates a missing calendar or
// holiday.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCalendarNotFound) || errors.Is(err, ErrHolidayNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDefinition) ||
		errors.Is(err, ErrUnknownBase) ||
		errors.Is(err, ErrInvalidWeekday) ||
		errors.Is(err, ErrBuiltinCalendar)
}
