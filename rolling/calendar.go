package rolling

// Calendar answers whether a date is a business day. Implementations must be
// deterministic; the engine treats them as an opaque oracle.
//
// Concrete calendars (weekend-only, holiday tables, market calendars) live in
// the calendar package.
type Calendar interface {
	IsBusinessDay(d Date) bool
}

// CalendarFunc adapts a predicate to the Calendar interface.
type CalendarFunc func(d Date) bool

func (f CalendarFunc) IsBusinessDay(d Date) bool { return f(d) }
