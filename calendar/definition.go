/*
definition.go - JSON/YAML calendar definitions

PURPOSE:
  Converts a serializable calendar description into a HolidayCalendar, so
  operations staff can add a desk or jurisdiction calendar without code
  changes. Definitions arrive from the API (JSON), from the server config
  file (YAML), and from the store.

SCHEMA:
  {
    "id": "nyse",
    "name": "NYSE settlement",
    "base": "us",                       // optional: us, gb, target, or "us+target"
    "weekend": ["saturday", "sunday"],  // optional: omitted = Sat/Sun, [] = none
    "holidays": [
      {"date": "2025-01-09", "name": "National Day of Mourning"},
      {"date": "2000-12-24", "name": "Christmas Eve", "recurring": true}
    ]
  }

VALIDATION:
  - id is required, lower-cased, and may not contain '+' (reserved for
    joint lookups) or collide with a built-in ID
  - base parts must be built-in market calendars
  - weekday names must parse

SEE ALSO:
  - holiday.go: HolidayCalendar
  - registry.go: Where built calendars are kept
*/
package calendar

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/warp/rolling-engine/rolling"
)

// =============================================================================
// SCHEMA TYPES
// =============================================================================

// Definition is the serializable form of a custom calendar.
type Definition struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Base     string    `json:"base,omitempty" yaml:"base,omitempty"`
	Weekend  []string  `json:"weekend" yaml:"weekend,omitempty"` // nil = Saturday+Sunday, empty = none
	Holidays []Holiday `json:"holidays,omitempty" yaml:"holidays,omitempty"`
}

// ParseDefinitionJSON decodes a JSON definition.
func ParseDefinitionJSON(data []byte) (Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("failed to parse calendar JSON: %w", err)
	}
	return def, nil
}

// ParseDefinitionYAML decodes a YAML definition.
func ParseDefinitionYAML(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("failed to parse calendar YAML: %w", err)
	}
	return def, nil
}

// Normalize lower-cases and trims the IDs in place and gives every holiday
// without an ID a fresh one.
func (d *Definition) Normalize() {
	d.ID = normalizeID(d.ID)
	d.Base = normalizeID(d.Base)
	if d.Name == "" {
		d.Name = d.ID
	}
	for i := range d.Holidays {
		d.Holidays[i].CalendarID = d.ID
		if d.Holidays[i].ID == "" {
			d.Holidays[i].ID = uuid.NewString()
		}
	}
}

// Validate checks the definition without building it.
func (d Definition) Validate() error {
	id := normalizeID(d.ID)
	switch {
	case id == "":
		return fmt.Errorf("%w: id is required", ErrInvalidDefinition)
	case strings.Contains(id, "+"):
		return fmt.Errorf("%w: id %q may not contain '+'", ErrInvalidDefinition, id)
	case isBuiltinID(id):
		return fmt.Errorf("%w: %q", ErrBuiltinCalendar, id)
	}
	if _, err := ParseWeekendMask(d.Weekend); err != nil {
		return err
	}
	if _, err := baseCalendar(d.Base); err != nil {
		return err
	}
	for i, h := range d.Holidays {
		if h.Date.IsZero() {
			return fmt.Errorf("%w: holidays[%d] has no date", ErrInvalidDefinition, i)
		}
	}
	return nil
}

// Build validates the definition and returns its calendar.
func Build(def Definition) (*HolidayCalendar, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	def.Normalize()

	weekend, err := ParseWeekendMask(def.Weekend)
	if err != nil {
		return nil, err
	}
	base, err := baseCalendar(def.Base)
	if err != nil {
		return nil, err
	}

	c := NewHolidayCalendar(def.ID, def.Name, weekend, base, def.Holidays)
	c.baseID = def.Base
	return c, nil
}

// DefinitionOf converts a calendar back to its definition.
func DefinitionOf(c *HolidayCalendar) Definition {
	weekend := c.Weekend().Names()
	if c.Weekend() == SaturdaySunday {
		weekend = nil
	}
	return Definition{
		ID:       c.ID(),
		Name:     c.Name(),
		Base:     c.BaseID(),
		Weekend:  weekend,
		Holidays: c.Holidays(),
	}
}

// baseCalendar resolves "us", "gb+target", ... to a calendar. Empty yields
// nil.
func baseCalendar(base string) (rolling.Calendar, error) {
	base = normalizeID(base)
	if base == "" {
		return nil, nil
	}
	parts := strings.Split(base, "+")
	joint := make(Joint, 0, len(parts))
	for _, part := range parts {
		m, ok := MarketByID(part)
		if !ok {
			return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownBase, part, strings.Join(MarketIDs(), ", "))
		}
		joint = append(joint, m)
	}
	if len(joint) == 1 {
		return joint[0], nil
	}
	return joint, nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func isBuiltinID(id string) bool {
	if id == IDWeekends {
		return true
	}
	_, ok := marketConstructors[id]
	return ok
}
