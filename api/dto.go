/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Dates travel as
  "YYYY-MM-DD" strings and conventions as their snake_case codes
  ("modified_following") or abbreviations ("mf").

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - calendar/definition.go: Calendar definition schema (used as-is)
*/
package api

import (
	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/rolling"
)

// =============================================================================
// CONVENTIONS
// =============================================================================

// ConventionDTO describes one rolling convention.
type ConventionDTO struct {
	Code    string `json:"code"`
	Label   string `json:"label"`
	Default bool   `json:"default,omitempty"`
}

func toConventionDTO(c rolling.Convention) ConventionDTO {
	return ConventionDTO{
		Code:    c.Code(),
		Label:   c.String(),
		Default: c == rolling.DefaultConvention(),
	}
}

// =============================================================================
// ROLLING
// =============================================================================

// RollRequest rolls a single date. Convention defaults to "actual" and
// calendar to "weekends".
type RollRequest struct {
	Date       string `json:"date"`
	Convention string `json:"convention"`
	Calendar   string `json:"calendar"`
}

// RollResponse is the result of a single roll.
type RollResponse struct {
	Date       string `json:"date"`
	Rolled     string `json:"rolled"`
	Shift      int    `json:"shift"` // calendar days moved, negative when rolled backward
	Adjusted   bool   `json:"adjusted"`
	Convention string `json:"convention"`
	Calendar   string `json:"calendar"`
}

// BatchRollRequest rolls many dates with one convention and calendar.
type BatchRollRequest struct {
	Dates      []string `json:"dates"`
	Convention string   `json:"convention"`
	Calendar   string   `json:"calendar"`
}

// BatchRollResponse holds rolled dates in request order.
type BatchRollResponse struct {
	Dates      []string `json:"dates"`
	Convention string   `json:"convention"`
	Calendar   string   `json:"calendar"`
}

// =============================================================================
// CALENDARS
// =============================================================================

// CalendarDTO is a calendar with its own holidays. Built-in calendars
// report no holidays here; see the holidays endpoint.
type CalendarDTO struct {
	calendar.Info
	Holidays []calendar.Holiday `json:"holidays"`
}

// CreateHolidayRequest adds a holiday to a custom calendar.
type CreateHolidayRequest struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// BusinessDayResponse answers whether a date is a business day.
type BusinessDayResponse struct {
	Date        string `json:"date"`
	Calendar    string `json:"calendar"`
	BusinessDay bool   `json:"business_day"`
	Holiday     string `json:"holiday,omitempty"`
	Next        string `json:"next"`
	Previous    string `json:"previous"`
}

// BusinessDaysResponse lists the business days of a range.
type BusinessDaysResponse struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Calendar string   `json:"calendar"`
	Count    int      `json:"count"`
	Days     []string `json:"days"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func formatDates(ds []rolling.Date) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}
