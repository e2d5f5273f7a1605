package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DisplayMode selects which standings are fetched next to the schedule
type DisplayMode int

const (
	DisplayBoth DisplayMode = iota
	DisplayDriverOnly
	DisplayConstructorOnly
)

// ParseDisplayMode parses "both", "driver" or "constructor", ignoring case
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "both", "":
		return DisplayBoth, nil
	case "driver", "drivers":
		return DisplayDriverOnly, nil
	case "constructor", "constructors":
		return DisplayConstructorOnly, nil
	default:
		return DisplayBoth, fmt.Errorf("unknown display mode %q", s)
	}
}

func (m DisplayMode) String() string {
	switch m {
	case DisplayDriverOnly:
		return "driver"
	case DisplayConstructorOnly:
		return "constructor"
	default:
		return "both"
	}
}

// Includes reports whether the mode fetches the given category. The schedule is always fetched.
func (m DisplayMode) Includes(c Category) bool {
	switch c {
	case CategorySchedule:
		return true
	case CategoryDrivers:
		return m != DisplayConstructorOnly
	case CategoryConstructors:
		return m != DisplayDriverOnly
	default:
		return false
	}
}

// Season is either the current calendar year (Year == 0) or a literal year
type Season struct {
	Year int
}

// CurrentSeason follows the calendar year at request time
var CurrentSeason = Season{}

// ParseSeason parses "current" or a four digit year
func ParseSeason(s string) (Season, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "current") {
		return CurrentSeason, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1950 {
		return CurrentSeason, fmt.Errorf("invalid season %q", s)
	}
	return Season{Year: year}, nil
}

// IsCurrent reports whether the season tracks the calendar year
func (s Season) IsCurrent() bool {
	return s.Year == 0
}

// Resolve returns the concrete year for a request made at now
func (s Season) Resolve(now time.Time) int {
	if s.IsCurrent() {
		return now.Year()
	}
	return s.Year
}

func (s Season) String() string {
	if s.IsCurrent() {
		return "current"
	}
	return strconv.Itoa(s.Year)
}
