package calendar

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/warp/rolling-engine/rolling"
)

// =============================================================================
// REGISTRY - Named calendars
// =============================================================================

// Kind distinguishes built-in calendars from user-defined ones.
type Kind string

const (
	KindBuiltin Kind = "builtin"
	KindCustom  Kind = "custom"
)

// Info describes a registered calendar.
type Info struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Base    string   `json:"base,omitempty"`
	Weekend []string `json:"weekend"`
}

type builtin struct {
	name     string
	calendar rolling.Calendar
	weekend  WeekendMask
}

// Registry resolves calendar IDs. Built-ins are fixed; custom calendars are
// replaced wholesale on every change so readers never see a half-updated
// holiday table.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]builtin
	custom   map[string]*HolidayCalendar
}

// NewRegistry returns a registry holding the built-in calendars: weekends,
// us, gb and target.
func NewRegistry() *Registry {
	r := &Registry{
		builtins: map[string]builtin{
			IDWeekends: {name: "Saturday/Sunday", calendar: Weekends{}, weekend: SaturdaySunday},
		},
		custom: make(map[string]*HolidayCalendar),
	}
	for _, id := range MarketIDs() {
		m, _ := MarketByID(id)
		r.builtins[id] = builtin{name: m.Name(), calendar: m, weekend: SaturdaySunday}
	}
	return r
}

// Get returns the calendar for id. "a+b" returns the Joint of a and b.
func (r *Registry) Get(id string) (rolling.Calendar, error) {
	id = normalizeID(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrCalendarNotFound)
	}
	parts := strings.Split(id, "+")

	r.mu.RLock()
	defer r.mu.RUnlock()

	joint := make(Joint, 0, len(parts))
	for _, part := range parts {
		c, ok := r.lookupLocked(part)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrCalendarNotFound, part)
		}
		joint = append(joint, c)
	}
	if len(joint) == 1 {
		return joint[0], nil
	}
	return joint, nil
}

// Custom returns the user-defined calendar for id.
func (r *Registry) Custom(id string) (*HolidayCalendar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.custom[normalizeID(id)]
	return c, ok
}

// IsBuiltin reports whether id names a built-in calendar.
func (r *Registry) IsBuiltin(id string) bool {
	_, ok := r.builtins[normalizeID(id)]
	return ok
}

func (r *Registry) lookupLocked(id string) (rolling.Calendar, bool) {
	if b, ok := r.builtins[id]; ok {
		return b.calendar, true
	}
	c, ok := r.custom[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// Register builds def and stores it, replacing any calendar with the same ID.
func (r *Registry) Register(def Definition) (*HolidayCalendar, error) {
	c, err := Build(def)
	if err != nil {
		return nil, err
	}
	r.Put(c)
	return c, nil
}

// Put stores an already built calendar.
func (r *Registry) Put(c *HolidayCalendar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom[c.ID()] = c
}

// Remove deletes a custom calendar.
func (r *Registry) Remove(id string) error {
	id = normalizeID(id)
	if r.IsBuiltin(id) {
		return fmt.Errorf("%w: %q", ErrBuiltinCalendar, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.custom[id]; !ok {
		return fmt.Errorf("%w: %q", ErrCalendarNotFound, id)
	}
	delete(r.custom, id)
	return nil
}

// List returns every calendar, built-ins first, each group sorted by ID.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.builtins)+len(r.custom))
	for id, b := range r.builtins {
		infos = append(infos, Info{ID: id, Name: b.name, Kind: KindBuiltin, Weekend: b.weekend.Names()})
	}
	for id, c := range r.custom {
		infos = append(infos, Info{ID: id, Name: c.Name(), Kind: KindCustom, Base: c.BaseID(), Weekend: c.Weekend().Names()})
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Kind != infos[j].Kind {
			return infos[i].Kind == KindBuiltin
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// Describe returns the Info for a single calendar.
func (r *Registry) Describe(id string) (Info, error) {
	id = normalizeID(id)
	for _, info := range r.List() {
		if info.ID == id {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("%w: %q", ErrCalendarNotFound, id)
}

// Load registers every calendar held by store. Definitions that no longer
// build (e.g. a removed base) are skipped and reported together.
func (r *Registry) Load(ctx context.Context, store Store) error {
	defs, err := store.ListCalendars(ctx)
	if err != nil {
		return fmt.Errorf("failed to list calendars: %w", err)
	}
	var failed []string
	for _, def := range defs {
		if _, err := r.Register(def); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", def.ID, err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(failed, "; "))
	}
	return nil
}

// Sync replaces every custom calendar with the set held by store, dropping
// calendars the store no longer has. Definitions that fail to build are
// left out and reported together.
func (r *Registry) Sync(ctx context.Context, store Store) (int, error) {
	defs, err := store.ListCalendars(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list calendars: %w", err)
	}
	next := make(map[string]*HolidayCalendar, len(defs))
	var failed []string
	for _, def := range defs {
		c, err := Build(def)
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", def.ID, err))
			continue
		}
		next[c.ID()] = c
	}

	r.mu.Lock()
	r.custom = next
	r.mu.Unlock()

	if len(failed) > 0 {
		return len(next), fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(failed, "; "))
	}
	return len(next), nil
}
