package models

import (
	"time"
)

// Availability is one stored availability record for a host. Recurring
// records repeat weekly on daysofweek; specific-date records carry a
// concrete date and are never folded into the weekly grid.
//
// Column and JSON names match the booking backend's wire contract:
// daysofweek holds the long weekday label (MONDAY..SUNDAY) and the time
// columns hold HH:MM:SS with a zero seconds component.
type Availability struct {
	ID           string     `db:"id" json:"id"`
	HostID       string     `db:"host_id" json:"host_id"`
	DaysOfWeek   string     `db:"daysofweek" json:"daysofweek"`
	StartTime    string     `db:"start_time" json:"start_time"`
	EndTime      string     `db:"end_time" json:"end_time"`
	IsRecurring  bool       `db:"is_recurring" json:"is_recurring"`
	SpecificDate *time.Time `db:"specific_date" json:"specific_date,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// WeeklyGrid is the expanded view of a host's recurring availability, one
// entry per weekday in Monday-first order.
type WeeklyGrid struct {
	HostID string          `json:"host_id"`
	Days   []WeeklyGridDay `json:"days"`
	Ranges []Availability  `json:"ranges"`
	Issues []string        `json:"issues,omitempty"`
}

// WeeklyGridDay lists the selected slot start times of one weekday.
type WeeklyGridDay struct {
	Day   string   `json:"day"`
	Label string   `json:"label"`
	Slots []string `json:"slots"`
}
