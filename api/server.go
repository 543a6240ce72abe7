/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. RequestLogger: zap request logging (includes the request ID)
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Cross-origin requests for frontends

ROUTE GROUPS:
  /api/health         Liveness (and store ping when supported)
  /api/conventions    Convention list
  /api/roll/*         Date rolling
  /api/calendars/*    Calendar management and business-day queries

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/rolling/serve.go: Server startup
*/
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. corsOrigins
// lists the allowed browser origins; empty disables CORS.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.log))
	r.Use(middleware.Recoverer)
	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/conventions", h.ListConventions)

		// Rolling routes
		r.Route("/roll", func(r chi.Router) {
			r.Post("/", h.Roll)
			r.Post("/batch", h.RollBatch)
		})

		// Calendar routes
		r.Route("/calendars", func(r chi.Router) {
			r.Get("/", h.ListCalendars)
			r.Post("/", h.CreateCalendar)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetCalendar)
				r.Delete("/", h.DeleteCalendar)
				r.Get("/business-day", h.BusinessDay)
				r.Get("/business-days", h.BusinessDays)

				// Holiday routes
				r.Get("/holidays", h.ListHolidays)
				r.Post("/holidays", h.CreateHoliday)
				r.Delete("/holidays/{holidayID}", h.DeleteHoliday)
			})
		})
	})

	return r
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness, pinging the store when it supports it.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
