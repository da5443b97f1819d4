package calc

import (
	"testing"
	"time"

	"renthub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSelectDate(t *testing.T) {
	minDate := day("2026-03-01")
	maxDate := day("2026-03-31")

	t.Run("FirstClickSeedsOneDayRange", func(t *testing.T) {
		sel, conflicts := SelectDate(day("2026-03-10"), Selection{}, nil, minDate, maxDate)
		assert.Nil(t, conflicts)
		assert.Equal(t, models.SelectionStartSelected, sel.State())
		assert.Equal(t, day("2026-03-10"), sel.StartDate)
		assert.Equal(t, day("2026-03-10"), sel.EndDate)
		assert.Equal(t, 1, sel.Duration)
	})

	t.Run("SecondClickCompletesRange", func(t *testing.T) {
		sel, _ := SelectDate(day("2026-03-10"), Selection{}, nil, minDate, maxDate)
		sel, conflicts := SelectDate(day("2026-03-14"), sel, nil, minDate, maxDate)
		assert.Nil(t, conflicts)
		assert.Equal(t, models.SelectionRangeComplete, sel.State())
		assert.Equal(t, day("2026-03-10"), sel.StartDate)
		assert.Equal(t, day("2026-03-14"), sel.EndDate)
		assert.Equal(t, 5, sel.Duration)
	})

	t.Run("EarlierClickRestartsWithNewStart", func(t *testing.T) {
		sel, _ := SelectDate(day("2026-03-10"), Selection{}, nil, minDate, maxDate)
		sel, conflicts := SelectDate(day("2026-03-05"), sel, nil, minDate, maxDate)
		assert.Nil(t, conflicts)
		assert.Equal(t, models.SelectionStartSelected, sel.State())
		assert.Equal(t, day("2026-03-05"), sel.StartDate)
		assert.Equal(t, day("2026-03-05"), sel.EndDate)
	})

	t.Run("ClickAfterCompleteRestartsFromClickedDate", func(t *testing.T) {
		sel, _ := SelectDate(day("2026-03-10"), Selection{}, nil, minDate, maxDate)
		sel, _ = SelectDate(day("2026-03-14"), sel, nil, minDate, maxDate)
		sel, conflicts := SelectDate(day("2026-03-20"), sel, nil, minDate, maxDate)
		assert.Nil(t, conflicts)
		assert.Equal(t, models.SelectionStartSelected, sel.State())
		assert.Equal(t, day("2026-03-20"), sel.StartDate)
		assert.Equal(t, 1, sel.Duration)
	})

	t.Run("SameDateClickCompletesOneDayRange", func(t *testing.T) {
		sel, _ := SelectDate(day("2026-03-10"), Selection{}, nil, minDate, maxDate)
		sel, conflicts := SelectDate(day("2026-03-10"), sel, nil, minDate, maxDate)
		assert.Nil(t, conflicts)
		assert.Equal(t, models.SelectionRangeComplete, sel.State())
		assert.Equal(t, 1, sel.Duration)
	})

	t.Run("OutOfWindowClickIsNoOp", func(t *testing.T) {
		sel, _ := SelectDate(day("2026-03-10"), Selection{}, nil, minDate, maxDate)
		got, conflicts := SelectDate(day("2026-04-02"), sel, nil, minDate, maxDate)
		assert.Nil(t, conflicts)
		assert.Equal(t, sel, got)

		got, _ = SelectDate(day("2026-02-27"), sel, nil, minDate, maxDate)
		assert.Equal(t, sel, got)
	})

	t.Run("UnavailableStartClickIsNoOp", func(t *testing.T) {
		records := []models.AvailabilityRecord{{Date: day("2026-03-10"), Status: models.DateBooked}}
		sel, conflicts := SelectDate(day("2026-03-10"), Selection{}, records, minDate, maxDate)
		assert.Nil(t, conflicts)
		assert.Equal(t, models.SelectionEmpty, sel.State())
	})

	t.Run("ConflictingInteriorWarnsButCompletes", func(t *testing.T) {
		records := []models.AvailabilityRecord{
			{Date: day("2026-03-12"), Status: models.DateBooked},
			{Date: day("2026-03-13"), Status: models.DateBlocked},
		}
		sel, _ := SelectDate(day("2026-03-10"), Selection{}, records, minDate, maxDate)
		sel, conflicts := SelectDate(day("2026-03-15"), sel, records, minDate, maxDate)
		assert.Equal(t, models.SelectionRangeComplete, sel.State())
		assert.Equal(t, []time.Time{day("2026-03-12"), day("2026-03-13")}, conflicts)
	})

	t.Run("Clear", func(t *testing.T) {
		sel, _ := SelectDate(day("2026-03-10"), Selection{}, nil, minDate, maxDate)
		sel = sel.Clear()
		assert.Equal(t, models.SelectionEmpty, sel.State())
		assert.Equal(t, 0, sel.Duration)
	})
}
