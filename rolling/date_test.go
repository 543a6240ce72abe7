package rolling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rolling-engine/rolling"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestDate_Normalizes(t *testing.T) {
	assert.Equal(t, date("2024-03-01"), rolling.NewDate(2024, time.February, 30))
	assert.Equal(t, date("2023-12-31"), rolling.NewDate(2024, time.January, 0))
}

func TestDate_ParseAndFormat(t *testing.T) {
	d, err := rolling.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 29, d.Day())
	assert.Equal(t, "2024-02-29", d.String())
	assert.Equal(t, time.Thursday, d.Weekday())

	_, err = rolling.ParseDate("2023-02-29")
	assert.ErrorIs(t, err, rolling.ErrInvalidDate)
	_, err = rolling.ParseDate("29/02/2024")
	assert.ErrorIs(t, err, rolling.ErrInvalidDate)
}

func TestDate_Range(t *testing.T) {
	_, err := rolling.ParseDate("0000-12-31")
	assert.ErrorIs(t, err, rolling.ErrInvalidDate)

	for _, s := range []string{"0001-01-01", "9999-12-31"} {
		d, err := rolling.ParseDate(s)
		require.NoError(t, err)
		assert.True(t, d.InRange())
		assert.Equal(t, s, d.String())
	}
	assert.Equal(t, rolling.MinDate, date("0001-01-01"))
	assert.Equal(t, rolling.MaxDate, date("9999-12-31"))
	assert.False(t, rolling.MaxDate.NextDay().InRange())
	assert.False(t, rolling.MinDate.PreviousDay().InRange())
	assert.False(t, rolling.Date{}.InRange())
}

func TestDate_Arithmetic(t *testing.T) {
	d := date("2024-12-31")
	assert.Equal(t, date("2025-01-01"), d.NextDay())
	assert.Equal(t, date("2024-12-30"), d.PreviousDay())
	assert.Equal(t, date("2024-03-01"), date("2024-02-28").AddDays(2))
	assert.Equal(t, 366, date("2024-01-01").DaysUntil(date("2025-01-01")))
	assert.Equal(t, -1, d.DaysUntil(d.PreviousDay()))
}

func TestDate_Comparison(t *testing.T) {
	a, b := date("2024-05-31"), date("2024-06-01")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 0, a.Compare(date("2024-05-31")))
	assert.True(t, a == date("2024-05-31"))
	assert.False(t, a.SameMonth(b))
	assert.False(t, date("2023-06-01").SameMonth(b), "same month, different year")
}

func TestDate_FromTimeUsesLocalDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2024, 6, 1, 1, 0, 0, 0, tokyo) // 2024-05-31T16:00Z
	assert.Equal(t, date("2024-06-01"), rolling.DateOf(instant))
	assert.Equal(t, date("2024-05-31"), rolling.DateOf(instant.UTC()))
}

func TestDate_Text(t *testing.T) {
	var d rolling.Date
	require.NoError(t, d.UnmarshalText([]byte("2024-06-03")))
	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", string(text))
	assert.Error(t, d.UnmarshalText([]byte("tomorrow")))
}

func TestToday(t *testing.T) {
	clock := fixedClock{t: time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)}
	assert.Equal(t, date("2024-06-01"), rolling.Today(clock))
}

func TestPeriod(t *testing.T) {
	june := rolling.MonthOf(date("2024-06-15"))
	assert.Equal(t, date("2024-06-01"), june.Start)
	assert.Equal(t, date("2024-06-30"), june.End)
	assert.Equal(t, 30, june.Len())
	assert.Len(t, june.Days(), 30)
	assert.True(t, june.Contains(date("2024-06-30")))
	assert.False(t, june.Contains(date("2024-07-01")))

	feb := rolling.MonthOf(date("2024-02-10"))
	assert.Equal(t, date("2024-02-29"), feb.End)

	dec := rolling.MonthOf(date("2024-12-25"))
	assert.Equal(t, date("2024-12-31"), dec.End)

	bad := rolling.Period{Start: date("2024-06-02"), End: date("2024-06-01")}
	assert.ErrorIs(t, bad.Validate(), rolling.ErrInvalidPeriod)
	assert.Empty(t, bad.Days())
}
