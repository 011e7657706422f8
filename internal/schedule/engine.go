// Package schedule implements the recurring-availability grid model: a
// host's weekly availability is edited as discrete fixed-size slots, stored
// as contiguous (day, start, end) ranges, and reconciled between the two
// representations with as few writes as possible.
//
// Everything in this package is a pure function over value types. Calling
// any operation twice with the same input yields identical output, so
// callers need no locking.
package schedule

import (
	"fmt"
	"sort"
)

// Range is one persisted availability record covering the half-open window
// [Start, End) on a single weekday. Only recurring ranges participate in
// the weekly grid; specific-date records pass through untouched.
type Range struct {
	Day       Day
	Start     TimeOfDay
	End       TimeOfDay
	Recurring bool
}

func (r Range) String() string {
	return fmt.Sprintf("%s %s-%s", r.Day.Short(), r.Start, r.End)
}

// MalformedRangeError reports a stored range that cannot be expanded onto
// the grid: an inverted window or an end not aligned to the slot size.
type MalformedRangeError struct {
	Range  Range
	Reason string
}

func (e *MalformedRangeError) Error() string {
	return fmt.Sprintf("malformed range %s: %s", e.Range, e.Reason)
}

// Coalesce merges a set of selected slots into the minimal set of maximal
// contiguous ranges, per day. Slot starts are sorted numerically; a run
// ends whenever the gap to the next start is not exactly the granularity.
// The emitted end is the last slot's start plus the granularity, turning
// the inclusive last-cell marker into an exclusive boundary. Output order
// is unspecified.
func Coalesce(slots SlotSet, granularityMinutes int) []Range {
	if granularityMinutes <= 0 || len(slots) == 0 {
		return nil
	}

	byDay := make(map[Day][]TimeOfDay)
	for k := range slots {
		byDay[k.Day] = append(byDay[k.Day], k.Start)
	}

	var ranges []Range
	for day, starts := range byDay {
		sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

		runStart := starts[0]
		prev := starts[0]
		for _, start := range starts[1:] {
			if int(start-prev) != granularityMinutes {
				ranges = append(ranges, Range{Day: day, Start: runStart, End: prev + TimeOfDay(granularityMinutes), Recurring: true})
				runStart = start
			}
			prev = start
		}
		ranges = append(ranges, Range{Day: day, Start: runStart, End: prev + TimeOfDay(granularityMinutes), Recurring: true})
	}
	return ranges
}

// Expand converts stored ranges back into the discrete slot set the grid
// renders. Non-recurring ranges are ignored. A malformed range contributes
// nothing and is reported in the returned error slice; valid siblings in
// the same batch are still expanded.
func Expand(ranges []Range, granularityMinutes int) (SlotSet, []error) {
	slots := make(SlotSet)
	if granularityMinutes <= 0 {
		return slots, []error{fmt.Errorf("granularity must be positive, got %d", granularityMinutes)}
	}

	var errs []error
	for _, r := range ranges {
		if !r.Recurring {
			continue
		}
		if err := checkRange(r, granularityMinutes); err != nil {
			errs = append(errs, err)
			continue
		}
		for t := r.Start; t < r.End; t += TimeOfDay(granularityMinutes) {
			slots.Add(SlotKey{Day: r.Day, Start: t})
		}
	}
	return slots, errs
}

func checkRange(r Range, granularityMinutes int) error {
	if !r.Day.Valid() {
		return &UnknownDayError{Label: r.Day.String()}
	}
	// End may equal MinutesPerDay: the day's last slot coalesces to an
	// exclusive midnight boundary.
	if r.End > MinutesPerDay {
		return &MalformedRangeError{Range: r, Reason: "end is past midnight"}
	}
	if !r.Start.Valid() || r.Start >= r.End {
		return &MalformedRangeError{Range: r, Reason: "start must precede end"}
	}
	if int(r.End-r.Start)%granularityMinutes != 0 {
		return &MalformedRangeError{Range: r, Reason: fmt.Sprintf("length is not a multiple of %d minutes", granularityMinutes)}
	}
	return nil
}

// DiffResult describes how a desired slot selection differs from the last
// known persisted selection.
type DiffResult struct {
	ToAdd     []Range
	ToRemove  []Range
	Unchanged SlotSet
}

// Diff computes the coalesced delta between two slot sets. ToAdd covers
// desired slots not yet persisted, ToRemove covers persisted slots no
// longer desired, Unchanged is their intersection. Diff(S, S) yields no
// ranges in either direction.
func Diff(desired, persisted SlotSet, granularityMinutes int) DiffResult {
	return DiffResult{
		ToAdd:     Coalesce(desired.Minus(persisted), granularityMinutes),
		ToRemove:  Coalesce(persisted.Minus(desired), granularityMinutes),
		Unchanged: desired.Intersect(persisted),
	}
}

// Plan is a record-level reconciliation: the backend stores one row per
// range and deletes whole rows only, so a partially deselected range must
// be deleted and its surviving slots re-created.
type Plan struct {
	Keep   []Range
	Delete []Range
	Create []Range
	Errors []error
}

// Empty reports whether applying the plan would issue no writes.
func (p Plan) Empty() bool {
	return len(p.Delete) == 0 && len(p.Create) == 0
}

// Reconcile plans the per-record writes that make persisted coverage
// set-equal to desired. Persisted records wholly contained in desired are
// kept untouched; records containing any deselected slot are deleted; the
// desired slots not covered by kept records are re-added coalesced.
// Malformed persisted records are scheduled for deletion and reported.
// Non-recurring records are always kept; they are outside the grid model.
func Reconcile(desired SlotSet, persisted []Range, granularityMinutes int) Plan {
	var plan Plan
	covered := make(SlotSet)

	for _, r := range persisted {
		if !r.Recurring {
			plan.Keep = append(plan.Keep, r)
			continue
		}
		if err := checkRange(r, granularityMinutes); err != nil {
			plan.Errors = append(plan.Errors, err)
			plan.Delete = append(plan.Delete, r)
			continue
		}

		slots, _ := Expand([]Range{r}, granularityMinutes)
		wanted := true
		for k := range slots {
			if !desired.Contains(k) {
				wanted = false
				break
			}
		}
		if wanted {
			plan.Keep = append(plan.Keep, r)
			for k := range slots {
				covered.Add(k)
			}
		} else {
			plan.Delete = append(plan.Delete, r)
		}
	}

	plan.Create = Coalesce(desired.Minus(covered), granularityMinutes)
	return plan
}
