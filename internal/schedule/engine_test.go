package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, raw string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(raw)
	require.NoError(t, err)
	return tod
}

func slot(t *testing.T, day Day, raw string) SlotKey {
	t.Helper()
	return SlotKey{Day: day, Start: mustTime(t, raw)}
}

func sortedRanges(ranges []Range) map[string]Range {
	out := make(map[string]Range, len(ranges))
	for _, r := range ranges {
		out[r.String()] = r
	}
	return out
}

func TestCoalesceMergesContiguousRuns(t *testing.T) {
	slots := NewSlotSet(
		slot(t, Monday, "8:00"),
		slot(t, Monday, "8:30"),
		slot(t, Monday, "9:00"),
		slot(t, Monday, "10:00"),
		slot(t, Tuesday, "8:00"),
	)

	ranges := Coalesce(slots, 30)
	require.Len(t, ranges, 3)

	byKey := sortedRanges(ranges)
	assert.Contains(t, byKey, "Mon 08:00-09:30")
	assert.Contains(t, byKey, "Mon 10:00-10:30")
	assert.Contains(t, byKey, "Tue 08:00-08:30")
	for _, r := range ranges {
		assert.True(t, r.Recurring)
	}
}

func TestCoalesceExclusiveEndBoundary(t *testing.T) {
	slots := NewSlotSet(
		slot(t, Monday, "8:00"),
		slot(t, Monday, "8:30"),
		slot(t, Monday, "9:00"),
	)

	ranges := Coalesce(slots, 30)
	require.Len(t, ranges, 1)
	// The last cell covers 09:00-09:30, so the range must end at 09:30.
	assert.Equal(t, mustTime(t, "8:00"), ranges[0].Start)
	assert.Equal(t, mustTime(t, "9:30"), ranges[0].End)
}

func TestLastSlotOfDayRoundTrips(t *testing.T) {
	// 23:30 coalesces to an exclusive end of midnight, the one boundary
	// allowed past the 0..1439 range of a TimeOfDay.
	slots := NewSlotSet(slot(t, Sunday, "23:30"))

	ranges := Coalesce(slots, 30)
	require.Len(t, ranges, 1)
	assert.Equal(t, TimeOfDay(MinutesPerDay), ranges[0].End)

	back, errs := Expand(ranges, 30)
	require.Empty(t, errs)
	assert.True(t, back.Equal(slots))
}

func TestCoalesceOrdersNumericallyNotLexically(t *testing.T) {
	// "10:00" sorts before "9:00" as a string; numerically 9:00 comes
	// first and the 60-minute gap must keep the slots apart.
	slots := NewSlotSet(
		slot(t, Wednesday, "10:00"),
		slot(t, Wednesday, "9:00"),
	)

	ranges := Coalesce(slots, 30)
	require.Len(t, ranges, 2)

	byKey := sortedRanges(ranges)
	assert.Contains(t, byKey, "Wed 09:00-09:30")
	assert.Contains(t, byKey, "Wed 10:00-10:30")
}

func TestCoalesceNeverCrossesDays(t *testing.T) {
	slots := NewSlotSet(
		slot(t, Monday, "8:00"),
		slot(t, Tuesday, "8:30"),
	)

	ranges := Coalesce(slots, 30)
	assert.Len(t, ranges, 2)
}

func TestCoalesceMinimality(t *testing.T) {
	slots := NewSlotSet(
		slot(t, Friday, "8:00"),
		slot(t, Friday, "8:30"),
		slot(t, Friday, "9:30"),
		slot(t, Friday, "10:00"),
		slot(t, Friday, "11:30"),
	)

	ranges := Coalesce(slots, 30)
	for i, a := range ranges {
		for j, b := range ranges {
			if i == j || a.Day != b.Day {
				continue
			}
			assert.NotEqual(t, a.End, b.Start, "adjacent ranges %s and %s should have been merged", a, b)
		}
	}
}

func TestCoalesceEmptyInput(t *testing.T) {
	assert.Nil(t, Coalesce(NewSlotSet(), 30))
	assert.Nil(t, Coalesce(nil, 30))
}

func TestExpandRoundTrip(t *testing.T) {
	slots := NewSlotSet(
		slot(t, Monday, "8:00"),
		slot(t, Monday, "8:30"),
		slot(t, Monday, "9:00"),
		slot(t, Monday, "10:00"),
		slot(t, Tuesday, "8:00"),
		slot(t, Sunday, "18:30"),
	)

	back, errs := Expand(Coalesce(slots, 30), 30)
	require.Empty(t, errs)
	assert.True(t, back.Equal(slots))
}

func TestExpandIgnoresNonRecurring(t *testing.T) {
	ranges := []Range{
		{Day: Monday, Start: mustTime(t, "8:00"), End: mustTime(t, "9:00"), Recurring: true},
		{Day: Monday, Start: mustTime(t, "14:00"), End: mustTime(t, "15:00"), Recurring: false},
	}

	slots, errs := Expand(ranges, 30)
	require.Empty(t, errs)
	assert.Len(t, slots, 2)
	assert.True(t, slots.Contains(slot(t, Monday, "8:00")))
	assert.True(t, slots.Contains(slot(t, Monday, "8:30")))
}

func TestExpandSkipsMalformedRangeAndKeepsSiblings(t *testing.T) {
	ranges := []Range{
		{Day: Monday, Start: mustTime(t, "9:00"), End: mustTime(t, "8:00"), Recurring: true},
		{Day: Tuesday, Start: mustTime(t, "8:00"), End: mustTime(t, "9:00"), Recurring: true},
	}

	slots, errs := Expand(ranges, 30)
	require.Len(t, errs, 1)

	var malformed *MalformedRangeError
	require.ErrorAs(t, errs[0], &malformed)
	assert.Equal(t, Monday, malformed.Range.Day)

	assert.Len(t, slots, 2)
	assert.True(t, slots.Contains(slot(t, Tuesday, "8:00")))
	assert.True(t, slots.Contains(slot(t, Tuesday, "8:30")))
}

func TestExpandReportsUnalignedEnd(t *testing.T) {
	ranges := []Range{
		{Day: Monday, Start: mustTime(t, "8:00"), End: mustTime(t, "8:45"), Recurring: true},
	}

	slots, errs := Expand(ranges, 30)
	require.Len(t, errs, 1)
	var malformed *MalformedRangeError
	assert.ErrorAs(t, errs[0], &malformed)
	assert.Empty(t, slots)
}

func TestDiffIdempotent(t *testing.T) {
	slots := NewSlotSet(
		slot(t, Monday, "8:00"),
		slot(t, Thursday, "12:30"),
	)

	result := Diff(slots, slots, 30)
	assert.Empty(t, result.ToAdd)
	assert.Empty(t, result.ToRemove)
	assert.True(t, result.Unchanged.Equal(slots))
}

func TestDiffComputesAddedDelta(t *testing.T) {
	persisted, errs := Expand([]Range{
		{Day: Monday, Start: mustTime(t, "8:00"), End: mustTime(t, "9:00"), Recurring: true},
	}, 30)
	require.Empty(t, errs)

	desired := NewSlotSet(
		slot(t, Monday, "8:00"),
		slot(t, Monday, "8:30"),
		slot(t, Monday, "9:00"),
	)

	result := Diff(desired, persisted, 30)
	require.Len(t, result.ToAdd, 1)
	assert.Equal(t, "Mon 09:00-09:30", result.ToAdd[0].String())
	assert.Empty(t, result.ToRemove)
	assert.True(t, result.Unchanged.Equal(persisted))
}

func TestDiffComputesRemovedDelta(t *testing.T) {
	desired := NewSlotSet(slot(t, Monday, "8:00"))
	persisted := NewSlotSet(
		slot(t, Monday, "8:00"),
		slot(t, Monday, "8:30"),
		slot(t, Monday, "9:00"),
	)

	result := Diff(desired, persisted, 30)
	assert.Empty(t, result.ToAdd)
	require.Len(t, result.ToRemove, 1)
	assert.Equal(t, "Mon 08:30-09:30", result.ToRemove[0].String())
}

func TestReconcileNoChanges(t *testing.T) {
	persisted := []Range{
		{Day: Monday, Start: mustTime(t, "8:00"), End: mustTime(t, "9:00"), Recurring: true},
	}
	desired, errs := Expand(persisted, 30)
	require.Empty(t, errs)

	plan := Reconcile(desired, persisted, 30)
	assert.True(t, plan.Empty())
	assert.Len(t, plan.Keep, 1)
	assert.Empty(t, plan.Errors)
}

func TestReconcileKeepsContainedRecordsAndAddsDelta(t *testing.T) {
	persisted := []Range{
		{Day: Monday, Start: mustTime(t, "8:00"), End: mustTime(t, "9:00"), Recurring: true},
	}
	desired := NewSlotSet(
		slot(t, Monday, "8:00"),
		slot(t, Monday, "8:30"),
		slot(t, Monday, "9:00"),
	)

	plan := Reconcile(desired, persisted, 30)
	assert.Len(t, plan.Keep, 1)
	assert.Empty(t, plan.Delete)
	require.Len(t, plan.Create, 1)
	assert.Equal(t, "Mon 09:00-09:30", plan.Create[0].String())
}

func TestReconcileDeletesPartiallyDeselectedRecord(t *testing.T) {
	// Record covers 8:00-10:00; the 8:30 cell is deselected, so the whole
	// row goes and the surviving cells come back as fresh ranges.
	persisted := []Range{
		{Day: Monday, Start: mustTime(t, "8:00"), End: mustTime(t, "10:00"), Recurring: true},
	}
	desired := NewSlotSet(
		slot(t, Monday, "8:00"),
		slot(t, Monday, "9:00"),
		slot(t, Monday, "9:30"),
	)

	plan := Reconcile(desired, persisted, 30)
	assert.Empty(t, plan.Keep)
	require.Len(t, plan.Delete, 1)

	byKey := sortedRanges(plan.Create)
	require.Len(t, byKey, 2)
	assert.Contains(t, byKey, "Mon 08:00-08:30")
	assert.Contains(t, byKey, "Mon 09:00-10:00")
}

func TestReconcileEndStateMatchesDesired(t *testing.T) {
	persisted := []Range{
		{Day: Monday, Start: mustTime(t, "8:00"), End: mustTime(t, "10:00"), Recurring: true},
		{Day: Tuesday, Start: mustTime(t, "13:00"), End: mustTime(t, "14:00"), Recurring: true},
	}
	desired := NewSlotSet(
		slot(t, Monday, "8:00"),
		slot(t, Monday, "9:30"),
		slot(t, Wednesday, "11:00"),
	)

	plan := Reconcile(desired, persisted, 30)

	var after []Range
	after = append(after, plan.Keep...)
	after = append(after, plan.Create...)
	slots, errs := Expand(after, 30)
	require.Empty(t, errs)
	assert.True(t, slots.Equal(desired))
}

func TestReconcileDropsMalformedPersistedRecord(t *testing.T) {
	persisted := []Range{
		{Day: Monday, Start: mustTime(t, "9:00"), End: mustTime(t, "8:00"), Recurring: true},
	}
	desired := NewSlotSet(slot(t, Monday, "8:00"))

	plan := Reconcile(desired, persisted, 30)
	require.Len(t, plan.Errors, 1)
	assert.Len(t, plan.Delete, 1)
	require.Len(t, plan.Create, 1)
	assert.Equal(t, "Mon 08:00-08:30", plan.Create[0].String())
}

func TestReconcilePassesThroughSpecificDateRecords(t *testing.T) {
	persisted := []Range{
		{Day: Friday, Start: mustTime(t, "8:00"), End: mustTime(t, "9:00"), Recurring: false},
	}

	plan := Reconcile(NewSlotSet(), persisted, 30)
	assert.Len(t, plan.Keep, 1)
	assert.True(t, plan.Empty())
}
