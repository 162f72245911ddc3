package rules

import (
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Fact names the derived time facts a rule condition may refer to.
type Fact string

const (
	FactSunrise    Fact = "SUNRISE"
	FactSunset     Fact = "SUNSET"
	FactStartOfDay Fact = "START-OF-DAY"
	FactEndOfDay   Fact = "END-OF-DAY"
)

// KnownFact reports whether the name is a recognized fact.
func KnownFact(f Fact) bool {
	switch f {
	case FactSunrise, FactSunset, FactStartOfDay, FactEndOfDay:
		return true
	}
	return false
}

// Location is the fixed site and day boundaries the time facts are
// computed for. DayStart and DayEnd are clock times ("15:04").
type Location struct {
	Latitude  float64
	Longitude float64
	Zone      *time.Location
	DayStart  string
	DayEnd    string
}

// State maps time facts to epoch seconds for one evaluation. It is built
// fresh per evaluation and never mutated afterwards, so day-to-day drift
// (today's sunrise is not tomorrow's) is picked up automatically.
type State struct {
	Now   int64
	Facts map[Fact]int64
}

// Fact returns the epoch-second value of a fact, 0 when unknown.
func (s State) Fact(f Fact) int64 {
	return s.Facts[f]
}

const clockLayout = "15:04"

// NewState computes the facts for the date of now at the given location.
func NewState(now time.Time, loc Location) (State, error) {
	zone := loc.Zone
	if zone == nil {
		zone = time.Local
	}
	local := now.In(zone)

	rise, set := sunrise.SunriseSunset(
		loc.Latitude, loc.Longitude,
		local.Year(), local.Month(), local.Day(),
	)

	dayStart, err := anchorClock(loc.DayStart, local, zone)
	if err != nil {
		return State{}, fmt.Errorf("day start: %w", err)
	}
	dayEnd, err := anchorClock(loc.DayEnd, local, zone)
	if err != nil {
		return State{}, fmt.Errorf("day end: %w", err)
	}

	return State{
		Now: now.Unix(),
		Facts: map[Fact]int64{
			FactSunrise:    rise.Unix(),
			FactSunset:     set.Unix(),
			FactStartOfDay: dayStart,
			FactEndOfDay:   dayEnd,
		},
	}, nil
}

// anchorClock turns a clock time into epoch seconds on day's date in zone.
func anchorClock(clock string, day time.Time, zone *time.Location) (int64, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("parse clock time %q: %w", clock, err)
	}
	anchored := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, zone)
	return anchored.Unix(), nil
}
