package models

import "time"

// QuoteRequest asks for a priced summary of a candidate range.
type QuoteRequest struct {
	ListingID int64          `json:"listing_id"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Options   PricingOptions `json:"options"`
}

// BookingRequest submits a range for an authoritative booking attempt.
type BookingRequest struct {
	ListingID  int64          `json:"listing_id"`
	RenterID   int64          `json:"renter_id"`
	RenterName string         `json:"renter_name"`
	Phone      string         `json:"phone"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    time.Time      `json:"end_date"`
	Options    PricingOptions `json:"options"`
	Comment    string         `json:"comment"`
}
