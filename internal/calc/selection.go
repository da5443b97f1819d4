package calc

import (
	"time"

	"renthub/internal/models"
)

// Selection is the date-range picker state. Zero StartDate means no selection.
// A fresh first click seeds a valid one-day range (start == end); the range is
// only complete after a second click.
type Selection struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Duration  int       `json:"duration_days"`
	complete  bool
}

// State returns one of models.SelectionEmpty, SelectionStartSelected,
// SelectionRangeComplete.
func (s Selection) State() string {
	switch {
	case s.StartDate.IsZero():
		return models.SelectionEmpty
	case s.complete:
		return models.SelectionRangeComplete
	default:
		return models.SelectionStartSelected
	}
}

// Clear returns the empty selection.
func (s Selection) Clear() Selection {
	return Selection{}
}

// SelectDate applies one click to the selection and returns the new selection
// plus any conflicting dates inside a newly completed range. Conflicts are a
// warning, not a rejection: the caller decides whether to block submission.
// Clicks outside [minDate, maxDate] are silently ignored.
func SelectDate(date time.Time, cur Selection, records []models.AvailabilityRecord, minDate, maxDate time.Time) (Selection, []time.Time) {
	day := DateOnly(date)
	if day.IsZero() {
		return cur, nil
	}
	if !minDate.IsZero() && day.Before(DateOnly(minDate)) {
		return cur, nil
	}
	if !maxDate.IsZero() && day.After(DateOnly(maxDate)) {
		return cur, nil
	}

	switch cur.State() {
	case models.SelectionEmpty, models.SelectionRangeComplete:
		if next, ok := startSelection(day, records); ok {
			return next, nil
		}
		return cur, nil

	default: // start selected
		start := DateOnly(cur.StartDate)
		if day.Before(start) {
			// Restart with the earlier date as the new start.
			if next, ok := startSelection(day, records); ok {
				return next, nil
			}
			return cur, nil
		}
		next := Selection{
			StartDate: start,
			EndDate:   day,
			Duration:  ComputeDuration(start, day),
			complete:  true,
		}
		return next, ConflictingDates(start, day, records)
	}
}

// startSelection seeds a one-day range; clicks on unavailable dates do nothing.
func startSelection(day time.Time, records []models.AvailabilityRecord) (Selection, bool) {
	if !IsDateAvailable(day, records) {
		return Selection{}, false
	}
	return Selection{
		StartDate: day,
		EndDate:   day,
		Duration:  1,
	}, true
}
