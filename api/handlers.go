/*
handlers.go - HTTP API handlers for the rolling engine

PURPOSE:
  Exposes business-day rolling and calendar management via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  rolling and calendar packages.

ENDPOINTS:
  Rolling:
    GET    /api/conventions                        List conventions
    POST   /api/roll                               Roll one date
    POST   /api/roll/batch                         Roll many dates

  Calendars:
    GET    /api/calendars                          List calendars
    POST   /api/calendars                          Create/replace custom calendar
    GET    /api/calendars/{id}                     Calendar details
    DELETE /api/calendars/{id}                     Delete custom calendar
    GET    /api/calendars/{id}/holidays?year=      Holidays
    POST   /api/calendars/{id}/holidays            Add holiday
    DELETE /api/calendars/{id}/holidays/{hid}      Remove holiday
    GET    /api/calendars/{id}/business-day?date=  Is date a business day
    GET    /api/calendars/{id}/business-days?from=&to=  Business days in range

  Calendar IDs joined with '+' ("us+target") name the joint calendar for
  rolling and business-day queries.

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Registry: In-memory calendars used for every query
  - Store: Persistence for custom calendars
  Writes go to the Store first, then to the Registry, under one mutex so
  both always hold the same calendars.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, unknown convention
  - 404: Calendar or holiday not found
  - 409: Duplicate holiday, built-in calendar modification
  - 422: No business day within the scan limit
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/rolling"
)

const (
	// MaxBatchSize caps the number of dates in one batch request.
	MaxBatchSize = 100_000

	// MaxRangeDays caps the length of a business-days query.
	MaxRangeDays = 3660

	defaultCalendar = calendar.IDWeekends
)

var errBadRequest = errors.New("bad request")

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry *calendar.Registry
	Store    calendar.Store

	log         *zap.Logger
	clock       rolling.Clock
	scanLimit   int
	concurrency int

	mu sync.Mutex // serializes calendar writes
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

func WithLogger(log *zap.Logger) HandlerOption {
	return func(h *Handler) { h.log = log }
}

func WithClock(clock rolling.Clock) HandlerOption {
	return func(h *Handler) { h.clock = clock }
}

func WithScanLimit(days int) HandlerOption {
	return func(h *Handler) { h.scanLimit = days }
}

func WithConcurrency(n int) HandlerOption {
	return func(h *Handler) { h.concurrency = n }
}

// NewHandler creates a new handler over registry and store.
func NewHandler(registry *calendar.Registry, store calendar.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		Registry:    registry,
		Store:       store,
		log:         zap.NewNop(),
		clock:       rolling.RealClock{},
		scanLimit:   rolling.DefaultScanLimit,
		concurrency: rolling.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) roller(cal rolling.Calendar) *rolling.Roller {
	return rolling.NewRoller(cal,
		rolling.WithScanLimit(h.scanLimit),
		rolling.WithConcurrency(h.concurrency),
		rolling.WithLogger(h.log),
	)
}

// =============================================================================
// ROLLING ENDPOINTS
// =============================================================================

// ListConventions returns every convention.
// GET /api/conventions
func (h *Handler) ListConventions(w http.ResponseWriter, r *http.Request) {
	all := rolling.Conventions()
	dtos := make([]ConventionDTO, 0, len(all))
	for _, c := range all {
		dtos = append(dtos, toConventionDTO(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"conventions": dtos})
}

// Roll rolls a single date.
// POST /api/roll
func (h *Handler) Roll(w http.ResponseWriter, r *http.Request) {
	var req RollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	d, err := parseDate("date", req.Date)
	if err != nil {
		h.fail(w, "Invalid date", err)
		return
	}
	conv, err := rolling.ParseConvention(req.Convention)
	if err != nil {
		h.fail(w, "Invalid convention", err)
		return
	}
	calID, cal, err := h.calendar(req.Calendar)
	if err != nil {
		h.fail(w, "Unknown calendar", err)
		return
	}

	rolled, err := h.roller(cal).Roll(d, conv)
	if err != nil {
		h.fail(w, "Failed to roll date", err)
		return
	}

	writeJSON(w, http.StatusOK, RollResponse{
		Date:       d.String(),
		Rolled:     rolled.String(),
		Shift:      d.DaysUntil(rolled),
		Adjusted:   rolled != d,
		Convention: conv.Code(),
		Calendar:   calID,
	})
}

// RollBatch rolls many dates, preserving order.
// POST /api/roll/batch
func (h *Handler) RollBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Dates) > MaxBatchSize {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Too many dates (max %d)", MaxBatchSize), nil)
		return
	}

	dates := make([]rolling.Date, len(req.Dates))
	for i, s := range req.Dates {
		d, err := rolling.ParseDate(s)
		if err != nil {
			h.fail(w, fmt.Sprintf("Invalid date at index %d", i), err)
			return
		}
		dates[i] = d
	}
	conv, err := rolling.ParseConvention(req.Convention)
	if err != nil {
		h.fail(w, "Invalid convention", err)
		return
	}
	calID, cal, err := h.calendar(req.Calendar)
	if err != nil {
		h.fail(w, "Unknown calendar", err)
		return
	}

	rolled, err := h.roller(cal).RollAllContext(r.Context(), dates, conv)
	if err != nil {
		h.fail(w, "Failed to roll dates", err)
		return
	}

	writeJSON(w, http.StatusOK, BatchRollResponse{
		Dates:      formatDates(rolled),
		Convention: conv.Code(),
		Calendar:   calID,
	})
}

// =============================================================================
// CALENDAR ENDPOINTS
// =============================================================================

// ListCalendars returns built-in and custom calendars.
// GET /api/calendars
func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"calendars": h.Registry.List()})
}

// CreateCalendar creates or replaces a custom calendar.
// POST /api/calendars
func (h *Handler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	var def calendar.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calendar definition", err)
		return
	}

	def.Normalize()
	cal, err := calendar.Build(def)
	if err != nil {
		h.fail(w, "Invalid calendar definition", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.SaveCalendar(r.Context(), calendar.DefinitionOf(cal)); err != nil {
		h.fail(w, "Failed to save calendar", err)
		return
	}
	h.Registry.Put(cal)

	h.log.Info("calendar saved",
		zap.String("calendar", cal.ID()),
		zap.Int("holidays", len(cal.Holidays())))
	writeJSON(w, http.StatusCreated, h.calendarDTO(cal.ID()))
}

// GetCalendar returns one calendar.
// GET /api/calendars/{id}
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Registry.Describe(id); err != nil {
		h.fail(w, "Calendar not found", err)
		return
	}
	writeJSON(w, http.StatusOK, h.calendarDTO(id))
}

// DeleteCalendar deletes a custom calendar.
// DELETE /api/calendars/{id}
func (h *Handler) DeleteCalendar(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(chi.URLParam(r, "id"))
	if h.Registry.IsBuiltin(id) {
		h.fail(w, "Cannot delete calendar", fmt.Errorf("%w: %q", calendar.ErrBuiltinCalendar, id))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.DeleteCalendar(r.Context(), id); err != nil {
		h.fail(w, "Failed to delete calendar", err)
		return
	}
	if err := h.Registry.Remove(id); err != nil && !calendar.IsNotFound(err) {
		h.fail(w, "Failed to delete calendar", err)
		return
	}

	h.log.Info("calendar deleted", zap.String("calendar", id))
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns a calendar's holidays. With ?year= recurring
// holidays are resolved to that year; built-in calendars always need a
// year and default to the current one.
// GET /api/calendars/{id}/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(chi.URLParam(r, "id"))

	year := 0
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 || y > 9999 {
			h.fail(w, "Invalid year", fmt.Errorf("%w: year %q", errBadRequest, s))
			return
		}
		year = y
	}

	var holidays []calendar.Holiday
	if custom, ok := h.Registry.Custom(id); ok {
		if year == 0 {
			holidays = custom.Holidays()
		} else {
			holidays = custom.HolidaysIn(year)
		}
	} else if m, ok := calendar.MarketByID(id); ok {
		if year == 0 {
			year = rolling.Today(h.clock).Year()
		}
		holidays = m.HolidaysIn(year)
	} else if id != calendar.IDWeekends {
		h.fail(w, "Calendar not found", fmt.Errorf("%w: %q", calendar.ErrCalendarNotFound, id))
		return
	}

	if holidays == nil {
		holidays = []calendar.Holiday{}
	}
	resp := map[string]any{"calendar": id, "holidays": holidays}
	if year != 0 {
		resp["year"] = year
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateHoliday adds a holiday to a custom calendar.
// POST /api/calendars/{id}/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(chi.URLParam(r, "id"))

	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}
	d, err := parseDate("date", req.Date)
	if err != nil {
		h.fail(w, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	cal, err := h.customCalendar(id)
	if err != nil {
		h.fail(w, "Cannot add holiday", err)
		return
	}

	holiday := calendar.Holiday{
		ID:         uuid.NewString(),
		CalendarID: cal.ID(),
		Date:       d,
		Name:       strings.TrimSpace(req.Name),
		Recurring:  req.Recurring,
	}
	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		h.fail(w, "Failed to create holiday", err)
		return
	}
	h.Registry.Put(cal.With(holiday))

	writeJSON(w, http.StatusCreated, holiday)
}

// DeleteHoliday removes a holiday from a custom calendar.
// DELETE /api/calendars/{id}/holidays/{holidayID}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(chi.URLParam(r, "id"))
	holidayID := chi.URLParam(r, "holidayID")

	h.mu.Lock()
	defer h.mu.Unlock()

	cal, err := h.customCalendar(id)
	if err != nil {
		h.fail(w, "Cannot delete holiday", err)
		return
	}
	if err := h.Store.DeleteHoliday(r.Context(), cal.ID(), holidayID); err != nil {
		h.fail(w, "Failed to delete holiday", err)
		return
	}
	h.Registry.Put(cal.Without(holidayID))

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// BUSINESS DAY QUERIES
// =============================================================================

// BusinessDay reports whether ?date= is a business day and its neighbours.
// GET /api/calendars/{id}/business-day
func (h *Handler) BusinessDay(w http.ResponseWriter, r *http.Request) {
	calID, cal, err := h.calendar(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "Calendar not found", err)
		return
	}
	d, err := parseDate("date", r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, "Invalid date", err)
		return
	}

	roller := h.roller(cal)
	next, err := roller.Roll(d.NextDay(), rolling.Following)
	if err != nil {
		h.fail(w, "Failed to find next business day", err)
		return
	}
	prev, err := roller.Roll(d.PreviousDay(), rolling.Preceding)
	if err != nil {
		h.fail(w, "Failed to find previous business day", err)
		return
	}

	writeJSON(w, http.StatusOK, BusinessDayResponse{
		Date:        d.String(),
		Calendar:    calID,
		BusinessDay: cal.IsBusinessDay(d),
		Holiday:     h.holidayName(calID, d),
		Next:        next.String(),
		Previous:    prev.String(),
	})
}

// BusinessDays lists the business days in [from, to].
// GET /api/calendars/{id}/business-days
func (h *Handler) BusinessDays(w http.ResponseWriter, r *http.Request) {
	calID, cal, err := h.calendar(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "Calendar not found", err)
		return
	}
	q := r.URL.Query()
	from, err := parseDate("from", q.Get("from"))
	if err != nil {
		h.fail(w, "Invalid from date", err)
		return
	}
	to, err := parseDate("to", q.Get("to"))
	if err != nil {
		h.fail(w, "Invalid to date", err)
		return
	}

	period := rolling.Period{Start: from, End: to}
	if period.Len() > MaxRangeDays {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Range too long (max %d days)", MaxRangeDays), nil)
		return
	}
	days, err := calendar.BusinessDays(cal, period)
	if err != nil {
		h.fail(w, "Invalid range", err)
		return
	}

	writeJSON(w, http.StatusOK, BusinessDaysResponse{
		From:     from.String(),
		To:       to.String(),
		Calendar: calID,
		Count:    len(days),
		Days:     formatDates(days),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// calendar resolves id through the registry; empty means weekends.
func (h *Handler) calendar(id string) (string, rolling.Calendar, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		id = defaultCalendar
	}
	cal, err := h.Registry.Get(id)
	return id, cal, err
}

func (h *Handler) customCalendar(id string) (*calendar.HolidayCalendar, error) {
	if h.Registry.IsBuiltin(id) {
		return nil, fmt.Errorf("%w: %q", calendar.ErrBuiltinCalendar, id)
	}
	cal, ok := h.Registry.Custom(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", calendar.ErrCalendarNotFound, id)
	}
	return cal, nil
}

func (h *Handler) calendarDTO(id string) CalendarDTO {
	info, _ := h.Registry.Describe(id)
	dto := CalendarDTO{Info: info, Holidays: []calendar.Holiday{}}
	if custom, ok := h.Registry.Custom(id); ok {
		dto.Holidays = custom.Holidays()
	}
	return dto
}

// holidayName returns the first holiday name any part of a joint id gives d.
func (h *Handler) holidayName(id string, d rolling.Date) string {
	for _, part := range strings.Split(id, "+") {
		if custom, ok := h.Registry.Custom(part); ok {
			if hol, ok := custom.HolidayOn(d); ok {
				return hol.Name
			}
		}
		if m, ok := calendar.MarketByID(part); ok {
			if name, ok := m.HolidayName(d); ok {
				return name
			}
		}
	}
	return ""
}

func parseDate(field, s string) (rolling.Date, error) {
	if s == "" {
		return rolling.Date{}, fmt.Errorf("%w: %s is required", rolling.ErrInvalidDate, field)
	}
	return rolling.ParseDate(s)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, calendar.ErrBuiltinCalendar), errors.Is(err, calendar.ErrDuplicateHoliday):
		return http.StatusConflict
	case calendar.IsNotFound(err):
		return http.StatusNotFound
	case rolling.IsClientError(err), calendar.IsClientError(err), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, rolling.ErrNoBusinessDay):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status, logging server-side failures.
func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(message, zap.Error(err))
	}
	details := any(err.Error())
	var batchErr *rolling.BatchError
	if errors.As(err, &batchErr) {
		details = map[string]any{
			"index": batchErr.Index,
			"date":  batchErr.Date.String(),
			"error": batchErr.Err.Error(),
		}
	}
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
