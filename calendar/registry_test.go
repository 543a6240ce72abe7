package calendar_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/rolling"
)

const deskYAML = `
id: Desk
name: FX desk
base: us
weekend: [friday, saturday]
holidays:
  - id: h1
    date: 2024-06-12
    name: Offsite
  - id: h2
    date: 2000-12-24
    name: Christmas Eve
    recurring: true
`

// =============================================================================
// DEFINITIONS
// =============================================================================

func TestParseDefinitionYAML_Build(t *testing.T) {
	// GIVEN
	def, err := calendar.ParseDefinitionYAML([]byte(deskYAML))
	require.NoError(t, err)

	// WHEN
	cal, err := calendar.Build(def)
	require.NoError(t, err)

	// THEN
	assert.Equal(t, "desk", cal.ID())
	assert.Equal(t, "us", cal.BaseID())
	assert.Len(t, cal.Holidays(), 2)

	assert.True(t, cal.IsBusinessDay(date("2024-06-09")), "Sunday is a working day")
	assert.False(t, cal.IsBusinessDay(date("2024-06-07")), "Friday is a weekend day")
	assert.False(t, cal.IsBusinessDay(date("2024-06-12")), "own holiday")
	assert.False(t, cal.IsBusinessDay(date("2024-07-04")), "inherited from the US base")
	assert.False(t, cal.IsBusinessDay(date("2025-12-24")), "recurring")
}

func TestParseDefinitionJSON_WeekendSemantics(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		weekend bool
	}{
		{"omitted means saturday and sunday", `{"id":"a"}`, true},
		{"null means saturday and sunday", `{"id":"a","weekend":null}`, true},
		{"empty means no weekend", `{"id":"a","weekend":[]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := calendar.ParseDefinitionJSON([]byte(tt.input))
			require.NoError(t, err)
			cal, err := calendar.Build(def)
			require.NoError(t, err)
			assert.Equal(t, tt.weekend, cal.IsWeekend(date("2024-06-01")))
		})
	}
}

func TestDefinitionOf_RoundTrip(t *testing.T) {
	// GIVEN: a seven-day calendar
	def := calendar.Definition{
		ID:       "crypto",
		Name:     "Crypto",
		Weekend:  []string{},
		Holidays: []calendar.Holiday{{ID: "h", Date: date("2024-01-01"), Name: "New Year"}},
	}
	cal, err := calendar.Build(def)
	require.NoError(t, err)

	// WHEN
	data, err := json.Marshal(calendar.DefinitionOf(cal))
	require.NoError(t, err)
	back, err := calendar.ParseDefinitionJSON(data)
	require.NoError(t, err)
	rebuilt, err := calendar.Build(back)
	require.NoError(t, err)

	// THEN
	assert.True(t, rebuilt.IsBusinessDay(date("2024-06-01")))
	assert.False(t, rebuilt.IsBusinessDay(date("2024-01-01")))
	assert.Equal(t, cal.Holidays(), rebuilt.Holidays())
}

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name string
		def  calendar.Definition
		want error
	}{
		{"missing id", calendar.Definition{}, calendar.ErrInvalidDefinition},
		{"joint id", calendar.Definition{ID: "a+b"}, calendar.ErrInvalidDefinition},
		{"builtin id", calendar.Definition{ID: "US"}, calendar.ErrBuiltinCalendar},
		{"bad weekday", calendar.Definition{ID: "x", Weekend: []string{"caturday"}}, calendar.ErrInvalidWeekday},
		{"bad base", calendar.Definition{ID: "x", Base: "us+mars"}, calendar.ErrUnknownBase},
		{"undated holiday", calendar.Definition{ID: "x", Holidays: []calendar.Holiday{{Name: "?"}}}, calendar.ErrInvalidDefinition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, calendar.IsClientError(err))
		})
	}
}

// =============================================================================
// REGISTRY
// =============================================================================

func TestRegistry_Builtins(t *testing.T) {
	reg := calendar.NewRegistry()

	infos := reg.List()
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		assert.Equal(t, calendar.KindBuiltin, info.Kind)
		ids = append(ids, info.ID)
	}
	assert.Equal(t, []string{"gb", "target", "us", "weekends"}, ids)

	cal, err := reg.Get("weekends")
	require.NoError(t, err)
	assert.False(t, cal.IsBusinessDay(date("2024-06-01")))
}

func TestRegistry_JointLookup(t *testing.T) {
	reg := calendar.NewRegistry()
	_, err := reg.Register(calendar.Definition{
		ID:       "desk",
		Holidays: []calendar.Holiday{{Date: date("2024-05-02"), Name: "Offsite"}},
	})
	require.NoError(t, err)

	cal, err := reg.Get("target+desk")
	require.NoError(t, err)

	rolled, err := rolling.Roll(date("2024-05-01"), rolling.Following, cal)
	require.NoError(t, err)
	assert.Equal(t, date("2024-05-03"), rolled)

	_, err = reg.Get("target+nowhere")
	assert.ErrorIs(t, err, calendar.ErrCalendarNotFound)
}

func TestRegistry_RegisterReplaceRemove(t *testing.T) {
	reg := calendar.NewRegistry()

	_, err := reg.Register(calendar.Definition{ID: "desk", Name: "v1"})
	require.NoError(t, err)
	_, err = reg.Register(calendar.Definition{ID: "desk", Name: "v2", Base: "gb"})
	require.NoError(t, err)

	info, err := reg.Describe("DESK")
	require.NoError(t, err)
	assert.Equal(t, "v2", info.Name)
	assert.Equal(t, calendar.KindCustom, info.Kind)
	assert.Equal(t, "gb", info.Base)
	assert.Equal(t, []string{"saturday", "sunday"}, info.Weekend)

	require.NoError(t, reg.Remove("desk"))
	assert.ErrorIs(t, reg.Remove("desk"), calendar.ErrCalendarNotFound)
	assert.ErrorIs(t, reg.Remove("us"), calendar.ErrBuiltinCalendar)

	_, err = reg.Describe("desk")
	assert.True(t, calendar.IsNotFound(err))
}

type listStore struct {
	calendar.Store
	defs []calendar.Definition
	err  error
}

func (s listStore) ListCalendars(context.Context) ([]calendar.Definition, error) {
	return s.defs, s.err
}

func TestRegistry_Load(t *testing.T) {
	reg := calendar.NewRegistry()
	store := listStore{defs: []calendar.Definition{
		{ID: "good"},
		{ID: "bad", Base: "mars"},
	}}

	err := reg.Load(context.Background(), store)
	assert.ErrorIs(t, err, calendar.ErrInvalidDefinition)

	_, ok := reg.Custom("good")
	assert.True(t, ok, "valid definitions are loaded despite failures")
	_, ok = reg.Custom("bad")
	assert.False(t, ok)

	boom := errors.New("boom")
	assert.ErrorIs(t, reg.Load(context.Background(), listStore{err: boom}), boom)
}

func TestRegistry_Sync(t *testing.T) {
	ctx := context.Background()
	reg := calendar.NewRegistry()
	_, err := reg.Register(calendar.Definition{ID: "gone"})
	require.NoError(t, err)

	// WHEN: the store holds a different set
	n, err := reg.Sync(ctx, listStore{defs: []calendar.Definition{{ID: "desk"}, {ID: "bad", Base: "mars"}}})

	// THEN
	assert.ErrorIs(t, err, calendar.ErrInvalidDefinition)
	assert.Equal(t, 1, n)
	_, ok := reg.Custom("desk")
	assert.True(t, ok)
	_, ok = reg.Custom("gone")
	assert.False(t, ok, "calendars missing from the store are dropped")
	assert.True(t, reg.IsBuiltin("us"))
}
