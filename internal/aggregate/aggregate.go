// Package aggregate turns values extracted from daily pages into a single
// weekly mean.
package aggregate

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"scrapjournal/internal/page"
)

// ErrInvalidFormat reports a present value that does not match the grammar.
var ErrInvalidFormat = errors.New("invalid format")

// Grammar is the textual shape a value must have to be aggregated.
type Grammar int

const (
	// TimeOfDay accepts "H:mm" or "HH:mm" and averages fractional hours.
	TimeOfDay Grammar = iota
	// Score accepts a single digit from 1 to 5.
	Score
)

var (
	timePattern  = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	scorePattern = regexp.MustCompile(`^[1-5]$`)
)

// String implements fmt.Stringer.
func (g Grammar) String() string {
	switch g {
	case TimeOfDay:
		return "time"
	case Score:
		return "score"
	default:
		return fmt.Sprintf("grammar(%d)", int(g))
	}
}

// Hint describes the expected input, for error messages.
func (g Grammar) Hint() string {
	if g == Score {
		return "use a number from 1 to 5"
	}
	return "use the format 'HH:mm'"
}

// Aggregate averages the present, well-formed values.
//
// Absent values and values that do not look numeric (after trimming they do
// not start with a digit, or contain "Error") are dropped silently. If nothing
// remains the result is 0. Any remaining value that fails the grammar fails
// the whole aggregation with ErrInvalidFormat.
//
// Scores are rounded half-up to two decimals; times are returned unrounded.
func Aggregate(values []page.Field, g Grammar) (float64, error) {
	candidates := Candidates(values)
	if len(candidates) == 0 {
		return 0, nil
	}

	total := 0.0
	for _, c := range candidates {
		n, err := Parse(c, g)
		if err != nil {
			return 0, err
		}
		total += n
	}
	mean := total / float64(len(candidates))
	if g == Score {
		return Round2(mean), nil
	}
	return mean, nil
}

// Candidates applies the sanity filter and returns trimmed values.
func Candidates(values []page.Field) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !v.Present {
			continue
		}
		s := strings.TrimSpace(v.Value)
		if s == "" || s[0] < '0' || s[0] > '9' {
			continue
		}
		if strings.Contains(s, "Error") {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Parse validates a trimmed value against g and converts it.
func Parse(s string, g Grammar) (float64, error) {
	switch g {
	case Score:
		if !scorePattern.MatchString(s) {
			return 0, fmt.Errorf("%w: %q: %s", ErrInvalidFormat, s, g.Hint())
		}
		n, _ := strconv.Atoi(s)
		return float64(n), nil
	case TimeOfDay:
		h, m, err := ParseClock(s)
		if err != nil {
			return 0, err
		}
		return float64(h) + float64(m)/60, nil
	default:
		return 0, fmt.Errorf("unknown grammar %s", g)
	}
}

// ParseClock splits an "H:mm" value into hour and minute. Hours above 23 and
// minutes above 59 are rejected.
func ParseClock(s string) (hour, minute int, err error) {
	if !timePattern.MatchString(s) {
		return 0, 0, fmt.Errorf("%w: %q: %s", ErrInvalidFormat, s, TimeOfDay.Hint())
	}
	hs, ms, _ := strings.Cut(s, ":")
	hour, _ = strconv.Atoi(hs)
	minute, _ = strconv.Atoi(ms)
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q is not a time of day", ErrInvalidFormat, s)
	}
	return hour, minute, nil
}

// Round2 rounds half-up to two decimal places.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
