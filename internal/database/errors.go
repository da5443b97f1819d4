package database

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrRangeConflict is returned when a requested range overlaps an
	// existing booking or a blocked date.
	ErrRangeConflict = errors.New("date range conflicts with existing bookings")

	// ErrListingNotFound is returned for unknown or inactive listings.
	ErrListingNotFound = errors.New("listing not found")

	// ErrNotFound is returned when a booking does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrConcurrentModification is returned when an optimistic version
	// check fails.
	ErrConcurrentModification = errors.New("booking was modified concurrently")

	// ErrPastDate is returned for ranges starting in the past.
	ErrPastDate = errors.New("booking date is in the past")

	// ErrDateTooFar is returned for ranges beyond the booking horizon.
	ErrDateTooFar = errors.New("booking date is too far ahead")

	// ErrStayTooLong is returned for ranges longer than the maximum rental.
	ErrStayTooLong = errors.New("booking range exceeds maximum stay")

	// ErrInvalidRange is returned for reversed or zero date ranges.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrWindowTooLarge is returned for availability queries wider than the
	// configured window limit.
	ErrWindowTooLarge = errors.New("availability window too large")

	// ErrAvailabilityUnconfirmed is returned when a booking cannot proceed
	// because availability for the range could not be confirmed.
	ErrAvailabilityUnconfirmed = errors.New("availability could not be confirmed")
)

// RangeConflictError carries the exact list of conflicting days.
// errors.Is(err, ErrRangeConflict) matches it.
type RangeConflictError struct {
	Dates []time.Time
}

func (e *RangeConflictError) Error() string {
	days := make([]string, len(e.Dates))
	for i, d := range e.Dates {
		days[i] = d.Format("2006-01-02")
	}
	return fmt.Sprintf("%s: %s", ErrRangeConflict, strings.Join(days, ", "))
}

func (e *RangeConflictError) Unwrap() error { return ErrRangeConflict }
