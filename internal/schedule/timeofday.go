package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay bounds a TimeOfDay value.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time held as minutes since midnight so that
// ordering is numeric. String-sorting clock labels puts "10:00" before
// "9:00", which is exactly the bug this representation exists to avoid.
type TimeOfDay int

// ParseTimeOfDay accepts the clock encodings seen at the service boundary:
// the grid forms "H:MM" and "HH:MM" and the backend form "HH:MM:SS".
// A seconds component must be zero.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: want H:MM, HH:MM or HH:MM:SS", raw)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid time %q: bad hour", raw)
	}
	if len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: minutes must be two digits", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: bad minutes", raw)
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec != 0 {
			return 0, fmt.Errorf("invalid time %q: seconds must be 00", raw)
		}
	}

	return TimeOfDay(hour*60 + minute), nil
}

// Valid reports whether the value lies within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component (0-59).
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String returns the zero-padded grid form "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Backend returns the persisted form "HH:MM:SS" with a zero seconds
// suffix. The reference backend rejects times without it.
func (t TimeOfDay) Backend() string {
	return fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute())
}
