package schedule

import "fmt"

// Day enumerates the seven weekdays of the recurring grid.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Days lists all weekdays in grid order, Monday first.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var longLabels = [...]string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

var shortLabels = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var dayByLabel = func() map[string]Day {
	m := make(map[string]Day, len(longLabels)+len(shortLabels))
	for d, label := range longLabels {
		m[label] = Day(d)
	}
	for d, label := range shortLabels {
		m[label] = Day(d)
	}
	return m
}()

// UnknownDayError reports a day label outside the seven-value enum.
type UnknownDayError struct {
	Label string
}

func (e *UnknownDayError) Error() string {
	return fmt.Sprintf("unknown day label %q", e.Label)
}

// ParseDay resolves either encoding of a weekday: the long backend label
// (MONDAY..SUNDAY) or the short grid label (Mon..Sun).
func ParseDay(label string) (Day, error) {
	if d, ok := dayByLabel[label]; ok {
		return d, nil
	}
	return 0, &UnknownDayError{Label: label}
}

// Valid reports whether the day is one of the seven enumerated values.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the long backend label (MONDAY..SUNDAY).
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DAY(%d)", int(d))
	}
	return longLabels[d]
}

// Short returns the three-letter grid label (Mon..Sun).
func (d Day) Short() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return shortLabels[d]
}
