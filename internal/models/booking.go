package models

import "time"

type Booking struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	ListingID   int64     `json:"listing_id"`
	ListingName string    `json:"listing_name"`
	RenterID    int64     `json:"renter_id"`
	RenterName  string    `json:"renter_name"`
	Phone       string    `json:"phone"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Duration    int       `json:"duration_days"`
	Pricing     Breakdown `json:"pricing"`
	Status      string    `json:"status"` // pending, confirmed, canceled, completed
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"`
}

// BlockedDate is an owner-blocked calendar day for a listing.
type BlockedDate struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing_id"`
	Date      time.Time `json:"date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
