package chrono

import (
	"time"

	// zone names must resolve on hosts without a zoneinfo database
	_ "time/tzdata"
)

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	// Now returns the current time in the location of the implementation.
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct {
	location *time.Location
}

// NewStandardTime is the constructor of StandardTime, a nil location means time.Local.
func NewStandardTime(location *time.Location) StandardTime {
	if location == nil {
		location = time.Local
	}
	return StandardTime{location: location}
}

// LoadStandardTime resolves an IANA zone name ("" or "Local" for the system zone).
func LoadStandardTime(name string) (StandardTime, error) {
	if name == "" {
		return NewStandardTime(nil), nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return StandardTime{}, err
	}
	return NewStandardTime(location), nil
}

func (s StandardTime) Now() time.Time {
	if s.location == nil {
		return time.Now()
	}
	return time.Now().In(s.location)
}

func (s StandardTime) Location() *time.Location {
	if s.location == nil {
		return time.Local
	}
	return s.location
}

// FixedTime always returns the same instant, useful for tests and replays.
type FixedTime struct {
	At time.Time
}

func (f FixedTime) Now() time.Time {
	return f.At
}
