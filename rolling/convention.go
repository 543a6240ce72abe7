package rolling

import (
	"strconv"
	"strings"
)

// =============================================================================
// CONVENTION - Business day adjustment rules
// =============================================================================

// Convention is a business day convention: the rule used to move a payment
// or accrual date that falls on a non-business day.
//
// The set is closed. The zero value is Actual.
type Convention int

const (
	// Actual pays on the date itself, even if it is not a business day.
	Actual Convention = iota

	// Following rolls to the next business day.
	Following

	// ModifiedFollowing rolls to the next business day unless that lands in
	// the next calendar month, in which case it rolls to the previous one.
	ModifiedFollowing

	// Preceding rolls to the previous business day.
	Preceding

	// ModifiedPreceding rolls to the previous business day unless that lands
	// in the previous calendar month, in which case it rolls to the next one.
	ModifiedPreceding

	// ModifiedRolling advances one calendar day at a time until a business
	// day is reached. Callers building a schedule feed the adjusted date back
	// in as the next base date, which makes adjustments cumulative; a single
	// Roll call carries no state.
	ModifiedRolling
)

var conventionLabels = [...]string{
	Actual:            "Actual",
	Following:         "Following",
	ModifiedFollowing: "Modified Following",
	Preceding:         "Preceding",
	ModifiedPreceding: "Modified Preceding",
	ModifiedRolling:   "Modified Rolling",
}

var conventionCodes = [...]string{
	Actual:            "actual",
	Following:         "following",
	ModifiedFollowing: "modified_following",
	Preceding:         "preceding",
	ModifiedPreceding: "modified_preceding",
	ModifiedRolling:   "modified_rolling",
}

var conventionAbbreviations = map[string]Convention{
	"a":  Actual,
	"f":  Following,
	"mf": ModifiedFollowing,
	"p":  Preceding,
	"mp": ModifiedPreceding,
	"mr": ModifiedRolling,
}

// DefaultConvention is the convention used when none is specified.
func DefaultConvention() Convention { return Actual }

// Conventions returns every convention in declaration order.
func Conventions() []Convention {
	return []Convention{Actual, Following, ModifiedFollowing, Preceding, ModifiedPreceding, ModifiedRolling}
}

// Valid reports whether c is one of the six conventions.
func (c Convention) Valid() bool {
	return c >= Actual && c <= ModifiedRolling
}

// String returns the human-readable label, e.g. "Modified Following".
// Labels are for display; use Code for round-tripping.
func (c Convention) String() string {
	if !c.Valid() {
		return "Convention(" + strconv.Itoa(int(c)) + ")"
	}
	return conventionLabels[c]
}

// Code returns the stable identifier, e.g. "modified_following".
func (c Convention) Code() string {
	if !c.Valid() {
		return ""
	}
	return conventionCodes[c]
}

// ParseConvention parses a convention code ("modified_following") or market
// abbreviation ("MF"). Matching is case-insensitive and dashes or spaces are
// accepted in place of underscores. The empty string yields the default.
func ParseConvention(s string) (Convention, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return DefaultConvention(), nil
	}
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	for i, code := range conventionCodes {
		if key == code {
			return Convention(i), nil
		}
	}
	if c, ok := conventionAbbreviations[key]; ok {
		return c, nil
	}
	return Actual, unknownConventionError(s)
}

func (c Convention) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, unknownConventionError(int(c))
	}
	return []byte(c.Code()), nil
}

func (c *Convention) UnmarshalText(text []byte) error {
	parsed, err := ParseConvention(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
