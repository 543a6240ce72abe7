package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/rolling"
	"github.com/warp/rolling-engine/store/sqlite"
	"github.com/warp/rolling-engine/store/storetest"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) calendar.Store { return newStore(t) })
}

func TestStore_Ping(t *testing.T) {
	assert.NoError(t, newStore(t).Ping(context.Background()))
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rolling.db")

	// GIVEN: a calendar written by one store
	s, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveCalendar(ctx, calendar.Definition{
		ID:       "desk",
		Name:     "Desk",
		Weekend:  []string{},
		Holidays: []calendar.Holiday{{ID: "h1", Date: rolling.MustParseDate("2024-06-12"), Name: "Offsite"}},
	}))
	require.NoError(t, s.Close())

	// WHEN: the file is reopened
	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	defer reopened.Close()

	// THEN
	def, err := reopened.GetCalendar(ctx, "desk")
	require.NoError(t, err)
	assert.Equal(t, []string{}, def.Weekend)
	require.Len(t, def.Holidays, 1)
	assert.Equal(t, rolling.MustParseDate("2024-06-12"), def.Holidays[0].Date)
}
