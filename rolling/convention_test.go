package rolling_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rolling-engine/rolling"
)

func TestConvention_Labels(t *testing.T) {
	want := map[rolling.Convention]string{
		rolling.Actual:            "Actual",
		rolling.Following:         "Following",
		rolling.ModifiedFollowing: "Modified Following",
		rolling.Preceding:         "Preceding",
		rolling.ModifiedPreceding: "Modified Preceding",
		rolling.ModifiedRolling:   "Modified Rolling",
	}
	require.Len(t, rolling.Conventions(), len(want))
	for _, c := range rolling.Conventions() {
		assert.Equal(t, want[c], c.String())
	}
	assert.Equal(t, "Convention(9)", rolling.Convention(9).String())
}

func TestConvention_Default(t *testing.T) {
	var unset rolling.Convention
	assert.Equal(t, rolling.Actual, unset)
	assert.Equal(t, rolling.Actual, rolling.DefaultConvention())

	parsed, err := rolling.ParseConvention("")
	require.NoError(t, err)
	assert.Equal(t, rolling.Actual, parsed)
}

func TestParseConvention(t *testing.T) {
	tests := map[string]rolling.Convention{
		"following":          rolling.Following,
		"Modified_Following": rolling.ModifiedFollowing,
		"modified-preceding": rolling.ModifiedPreceding,
		"modified rolling":   rolling.ModifiedRolling,
		"MF":                 rolling.ModifiedFollowing,
		"p":                  rolling.Preceding,
		" actual ":           rolling.Actual,
	}
	for in, want := range tests {
		got, err := rolling.ParseConvention(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := rolling.ParseConvention("end_of_month")
	assert.ErrorIs(t, err, rolling.ErrUnknownConvention)
}

func TestConvention_CodeRoundTrip(t *testing.T) {
	for _, c := range rolling.Conventions() {
		parsed, err := rolling.ParseConvention(c.Code())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestConvention_JSON(t *testing.T) {
	type payload struct {
		Convention rolling.Convention `json:"convention"`
	}

	out, err := json.Marshal(payload{Convention: rolling.ModifiedFollowing})
	require.NoError(t, err)
	assert.JSONEq(t, `{"convention":"modified_following"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"convention":"MP"}`), &in))
	assert.Equal(t, rolling.ModifiedPreceding, in.Convention)

	_, err = json.Marshal(payload{Convention: rolling.Convention(-1)})
	assert.Error(t, err)
}
