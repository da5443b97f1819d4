package calc

import (
	"sort"
	"time"

	"renthub/internal/models"
)

// DateOnly normalizes a timestamp to midnight UTC. Every date the calculator
// touches goes through this first so comparisons are calendar-day comparisons.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsDateAvailable reports whether a calendar day is selectable. Dates absent
// from the record list are available (open-world default).
func IsDateAvailable(date time.Time, records []models.AvailabilityRecord) bool {
	day := DateOnly(date)
	for _, r := range records {
		if DateOnly(r.Date).Equal(day) && r.Status != models.DateAvailable {
			return false
		}
	}
	return true
}

// ConflictingDates returns every unavailable day in the inclusive range
// [start, end], sorted ascending.
func ConflictingDates(start, end time.Time, records []models.AvailabilityRecord) []time.Time {
	start, end = DateOnly(start), DateOnly(end)
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil
	}

	unavailable := make(map[time.Time]bool, len(records))
	for _, r := range records {
		if r.Status != models.DateAvailable {
			unavailable[DateOnly(r.Date)] = true
		}
	}

	var conflicts []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if unavailable[d] {
			conflicts = append(conflicts, d)
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Before(conflicts[j]) })
	return conflicts
}

// ComputeDuration returns the inclusive day count between start and end.
// The same pair of dates always yields the same duration: this is the single
// duration law used by both the calendar and the pricing calculator.
func ComputeDuration(start, end time.Time) int {
	start, end = DateOnly(start), DateOnly(end)
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
