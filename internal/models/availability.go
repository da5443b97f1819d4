package models

import "time"

// AvailabilityRecord describes the state of one calendar day for a listing.
// Days absent from a window are available; only exceptions are materialized.
type AvailabilityRecord struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status"` // available, booked, blocked, tentative
}

// AvailabilityWindow is the queried slice of a listing's calendar.
// Confirmed is false when the store could not be reached and the window
// degraded to "everything available"; such a window must never be used to
// authorize a booking.
type AvailabilityWindow struct {
	ListingID int64                `json:"listing_id"`
	Start     time.Time            `json:"start"`
	End       time.Time            `json:"end"`
	Records   []AvailabilityRecord `json:"records"`
	Confirmed bool                 `json:"confirmed"`
}
