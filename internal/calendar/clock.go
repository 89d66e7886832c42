package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is the zone every journal date is interpreted in unless
// configured otherwise.
const DefaultTimezone = "Asia/Tokyo"

// ReferenceDateLayout is the accepted format for a fixed reference date.
const ReferenceDateLayout = "2006-01-02"

// Clock supplies the current instant in a single, fixed location.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock and converts it to Location.
type SystemClock struct {
	Location *time.Location
}

// Now implements Clock.
func (c SystemClock) Now() time.Time {
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

// Now implements Clock.
func (c FixedClock) Now() time.Time {
	return c.At
}

// LoadLocation resolves a zone name, defaulting to DefaultTimezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// NewClock builds the process clock. When referenceDate is non-empty the clock
// is frozen at midnight of that date in loc.
func NewClock(loc *time.Location, referenceDate string) (Clock, error) {
	if loc == nil {
		return nil, fmt.Errorf("clock requires a location")
	}
	if referenceDate == "" {
		return SystemClock{Location: loc}, nil
	}
	at, err := time.ParseInLocation(ReferenceDateLayout, referenceDate, loc)
	if err != nil {
		return nil, fmt.Errorf("parse reference date %q: %w", referenceDate, err)
	}
	return FixedClock{At: at}, nil
}
