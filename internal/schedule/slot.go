package schedule

import "fmt"

// SlotKey addresses one grid cell: one fixed-size unit of availability on
// one weekday. It is a comparable value type so sets key on structural
// equality instead of ad-hoc "day-time" string concatenation.
type SlotKey struct {
	Day   Day
	Start TimeOfDay
}

func (k SlotKey) String() string {
	return k.Day.Short() + " " + k.Start.String()
}

// SlotSet is an unordered set of grid cells, unique by (day, start).
type SlotSet map[SlotKey]struct{}

// NewSlotSet builds a set from the given keys.
func NewSlotSet(keys ...SlotKey) SlotSet {
	s := make(SlotSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add inserts a key into the set.
func (s SlotSet) Add(k SlotKey) { s[k] = struct{}{} }

// Contains reports membership.
func (s SlotSet) Contains(k SlotKey) bool {
	_, ok := s[k]
	return ok
}

// Equal reports whether both sets hold exactly the same keys.
func (s SlotSet) Equal(other SlotSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Contains(k) {
			return false
		}
	}
	return true
}

// Minus returns the keys present in s but not in other.
func (s SlotSet) Minus(other SlotSet) SlotSet {
	out := make(SlotSet)
	for k := range s {
		if !other.Contains(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Intersect returns the keys present in both sets.
func (s SlotSet) Intersect(other SlotSet) SlotSet {
	out := make(SlotSet)
	for k := range s {
		if other.Contains(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Grid is the statically configured set of selectable cells: every weekday
// crossed with the times from DayStart up to (not including) DayEnd in
// SlotMinutes steps.
type Grid struct {
	DayStart    TimeOfDay
	DayEnd      TimeOfDay
	SlotMinutes int
}

// SlotOffGridError reports a slot whose time is not one of the grid's
// configured cells.
type SlotOffGridError struct {
	Slot SlotKey
}

func (e *SlotOffGridError) Error() string {
	return fmt.Sprintf("slot %s is not on the configured grid", e.Slot)
}

// Validate checks the grid configuration itself.
func (g Grid) Validate() error {
	if g.SlotMinutes <= 0 {
		return fmt.Errorf("grid slot size must be positive, got %d", g.SlotMinutes)
	}
	if !g.DayStart.Valid() || !g.DayEnd.Valid() || g.DayStart >= g.DayEnd {
		return fmt.Errorf("grid window %s-%s is invalid", g.DayStart, g.DayEnd)
	}
	if (int(g.DayEnd)-int(g.DayStart))%g.SlotMinutes != 0 {
		return fmt.Errorf("grid window %s-%s is not a whole number of %d-minute slots", g.DayStart, g.DayEnd, g.SlotMinutes)
	}
	return nil
}

// Times returns every selectable start time of a grid day, ascending.
func (g Grid) Times() []TimeOfDay {
	var times []TimeOfDay
	for t := g.DayStart; t < g.DayEnd; t += TimeOfDay(g.SlotMinutes) {
		times = append(times, t)
	}
	return times
}

// CheckSlot verifies a key addresses an existing grid cell.
func (g Grid) CheckSlot(k SlotKey) error {
	if !k.Day.Valid() {
		return &UnknownDayError{Label: k.Day.String()}
	}
	if k.Start < g.DayStart || k.Start >= g.DayEnd || (int(k.Start)-int(g.DayStart))%g.SlotMinutes != 0 {
		return &SlotOffGridError{Slot: k}
	}
	return nil
}
