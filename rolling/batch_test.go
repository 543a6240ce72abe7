package rolling_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/rolling-engine/rolling"
)

func TestRollAll_MatchesRollPerElement(t *testing.T) {
	cal := withHolidays("2024-12-25", "2024-12-26")
	dates := rolling.Period{Start: date("2024-12-01"), End: date("2025-01-31")}.Days()

	for _, c := range rolling.Conventions() {
		rolled, err := rolling.RollAll(dates, c, cal)
		require.NoError(t, err)
		require.Len(t, rolled, len(dates))
		for i, d := range dates {
			want, err := rolling.Roll(d, c, cal)
			require.NoError(t, err)
			assert.Equal(t, want, rolled[i], "%s index %d", c, i)
		}
	}
}

func TestRollAll_Empty(t *testing.T) {
	rolled, err := rolling.RollAll(nil, rolling.Following, weekends)
	require.NoError(t, err)
	assert.NotNil(t, rolled)
	assert.Empty(t, rolled)
}

func TestRollAll_ModifiedRollingIsPerElement(t *testing.T) {
	// GIVEN: a schedule whose second date is a Sunday
	dates := []rolling.Date{date("2024-06-01"), date("2024-06-02"), date("2024-06-02")}

	// WHEN
	rolled, err := rolling.RollAll(dates, rolling.ModifiedRolling, weekends)

	// THEN: no element is influenced by the previous adjustment
	require.NoError(t, err)
	assert.Equal(t, []rolling.Date{date("2024-06-03"), date("2024-06-03"), date("2024-06-03")}, rolled)
}

func TestRollAllConcurrent_PreservesOrder(t *testing.T) {
	dates := rolling.Period{Start: date("2020-01-01"), End: date("2024-12-31")}.Days()

	sequential, err := rolling.RollAll(dates, rolling.ModifiedFollowing, weekends)
	require.NoError(t, err)

	concurrent, err := rolling.RollAllConcurrent(context.Background(), dates, rolling.ModifiedFollowing, weekends, 8)
	require.NoError(t, err)

	assert.Equal(t, sequential, concurrent)
}

func TestRollAllConcurrent_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dates := rolling.Period{Start: date("2024-01-01"), End: date("2024-01-31")}.Days()
	_, err := rolling.RollAllConcurrent(ctx, dates, rolling.Following, weekends, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRoller_RollAllContext(t *testing.T) {
	roller := rolling.NewRoller(weekends, rolling.WithConcurrency(3))
	dates := rolling.Period{Start: date("2023-01-01"), End: date("2024-12-31")}.Days()

	want, err := roller.RollAll(dates, rolling.Preceding)
	require.NoError(t, err)

	got, err := roller.RollAllContext(context.Background(), dates, rolling.Preceding)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	small, err := roller.RollAllContext(context.Background(), dates[:5], rolling.Preceding)
	require.NoError(t, err)
	assert.Equal(t, want[:5], small)
}

func TestRoller_LogsAdjustments(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := rolling.NewRoller(weekends, rolling.WithLogger(zap.New(core)))

	_, err := roller.Roll(date("2024-05-31"), rolling.Following)
	require.NoError(t, err)
	assert.Equal(t, 0, logs.Len(), "unchanged dates are not logged")

	rolled, err := roller.Roll(date("2024-06-01"), rolling.Following)
	require.NoError(t, err)
	assert.Equal(t, date("2024-06-03"), rolled)

	entries := logs.FilterMessage("rolled date").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Following", fields["convention"])
	assert.Equal(t, "2024-06-03", fields["rolled"])
}

func TestRoller_LogsBatches(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := rolling.NewRoller(weekends, rolling.WithLogger(zap.New(core)), rolling.WithConcurrency(4))

	// GIVEN: Friday to Monday, two dates move under Following
	dates := rolling.Period{Start: date("2024-05-31"), End: date("2024-06-03")}.Days()

	// WHEN
	_, err := roller.RollAll(dates, rolling.Following)
	require.NoError(t, err)
	_, err = roller.RollAll(dates, rolling.Actual)
	require.NoError(t, err)

	// THEN: one entry for the batch that moved dates
	entries := logs.FilterMessage("rolled batch").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(4), fields["dates"])
	assert.Equal(t, int64(2), fields["moved"])
	assert.Equal(t, "Following", fields["convention"])

	// WHEN: a large batch goes through the concurrent path
	year := rolling.Period{Start: date("2024-01-01"), End: date("2024-12-31")}.Days()
	_, err = roller.RollAllContext(context.Background(), year, rolling.Preceding)
	require.NoError(t, err)

	// THEN
	entries = logs.FilterMessage("rolled batch").All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(366), entries[1].ContextMap()["dates"])
	assert.Equal(t, int64(104), entries[1].ContextMap()["moved"])

	// WHEN: a batch fails
	failing := rolling.NewRoller(neverOpen, rolling.WithLogger(zap.New(core)), rolling.WithScanLimit(3))
	_, err = failing.RollAll(dates, rolling.Following)
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("batch roll failed").Len())
}

func TestRoller_Defaults(t *testing.T) {
	roller := rolling.NewRoller(weekends, rolling.WithScanLimit(0))
	assert.Equal(t, rolling.DefaultScanLimit, roller.ScanLimit())
	assert.NotNil(t, roller.Calendar())
}
