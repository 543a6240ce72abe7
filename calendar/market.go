package calendar

import (
	"sort"
	"strings"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ecb"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/us"

	"github.com/warp/rolling-engine/rolling"
)

// =============================================================================
// MARKET CALENDARS - Holiday rules maintained by github.com/rickar/cal
// =============================================================================

// Built-in calendar IDs.
const (
	IDWeekends = "weekends"
	IDUS       = "us"
	IDGB       = "gb"
	IDTarget   = "target"
)

// Market is a business calendar with a published holiday set, including the
// library's observed-day rules (e.g. a Saturday Independence Day is observed
// on the Friday).
type Market struct {
	id   string
	name string
	bc   *cal.BusinessCalendar
}

// NewMarket wraps rickar/cal holidays with a Monday-Friday working week.
func NewMarket(id, name string, holidays ...*cal.Holiday) *Market {
	bc := cal.NewBusinessCalendar()
	bc.Name = name
	bc.AddHoliday(holidays...)
	return &Market{id: id, name: name, bc: bc}
}

// USFederal returns the US federal holiday calendar.
func USFederal() *Market {
	return NewMarket(IDUS, "US Federal", us.Holidays...)
}

// GBBank returns the England and Wales bank holiday calendar.
func GBBank() *Market {
	return NewMarket(IDGB, "GB Bank Holidays", gb.Holidays...)
}

// Target returns the TARGET2 (euro settlement) calendar.
func Target() *Market {
	return NewMarket(IDTarget, "TARGET2", ecb.Holidays...)
}

var marketConstructors = map[string]func() *Market{
	IDUS:     USFederal,
	IDGB:     GBBank,
	IDTarget: Target,
}

// MarketByID returns the built-in market calendar for id.
func MarketByID(id string) (*Market, bool) {
	ctor, ok := marketConstructors[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// MarketIDs lists the built-in market calendar IDs, sorted.
func MarketIDs() []string {
	ids := make([]string, 0, len(marketConstructors))
	for id := range marketConstructors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Market) ID() string   { return m.id }
func (m *Market) Name() string { return m.name }

// IsBusinessDay implements rolling.Calendar.
func (m *Market) IsBusinessDay(d rolling.Date) bool {
	return m.bc.IsWorkday(d.Time())
}

// IsHoliday reports whether d is a holiday, either on the actual date or on
// the date it is observed.
func (m *Market) IsHoliday(d rolling.Date) bool {
	actual, observed, _ := m.bc.IsHoliday(d.Time())
	return actual || observed
}

// HolidaysIn lists the observed holiday closures of year.
func (m *Market) HolidaysIn(year int) []Holiday {
	var out []Holiday
	for _, h := range m.bc.Holidays {
		_, observed := h.Calc(year)
		if observed.IsZero() {
			continue
		}
		out = append(out, Holiday{
			CalendarID: m.id,
			Date:       rolling.DateOf(observed),
			Name:       h.Name,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// HolidayName returns the name of the holiday closing d, if any.
func (m *Market) HolidayName(d rolling.Date) (string, bool) {
	actual, observed, h := m.bc.IsHoliday(d.Time())
	if (actual || observed) && h != nil {
		return h.Name, true
	}
	return "", false
}
