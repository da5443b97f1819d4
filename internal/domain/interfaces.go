package domain

import (
	"context"
	"time"

	"renthub/internal/models"
)

type Repository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatusWithVersion(ctx context.Context, id, version int64, status string) error
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	GetRenterBookings(ctx context.Context, renterID int64) ([]*models.Booking, error)
	GetAvailabilityForRange(ctx context.Context, listingID int64, start, end time.Time) ([]models.AvailabilityRecord, error)
	CheckRangeAvailability(ctx context.Context, listingID int64, start, end time.Time) ([]time.Time, error)
	GetActiveListings(ctx context.Context) ([]*models.Listing, error)
	GetListingByID(ctx context.Context, id int64) (*models.Listing, error)
	DeactivateListing(ctx context.Context, id int64) error
	BlockDates(ctx context.Context, listingID int64, dates []time.Time, reason string) error
	UnblockDates(ctx context.Context, listingID int64, dates []time.Time) error
	SetListings(listings []models.Listing)
}

// WindowCache stores computed availability windows. Generation counters
// invalidate whole listings at once: bumping the generation orphans every
// window cached under the old one.
type WindowCache interface {
	GetWindow(ctx context.Context, listingID, generation int64, start, end time.Time) (*models.AvailabilityWindow, error)
	SetWindow(ctx context.Context, generation int64, window *models.AvailabilityWindow, ttl time.Duration) error
	Generation(ctx context.Context, listingID int64) (int64, error)
	BumpGeneration(ctx context.Context, listingID int64) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type SheetsWriter interface {
	UpsertBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, bookingID int64, status string) error
	ReplaceBookingsSheet(ctx context.Context, bookings []*models.Booking) error
}

type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, bookingID int64, booking *models.Booking, status string) error
}

type AvailabilityService interface {
	GetWindow(ctx context.Context, listingID int64, start, end time.Time) (*models.AvailabilityWindow, error)
	Invalidate(ctx context.Context, listingID int64) error
}

type QuoteService interface {
	BuildQuote(ctx context.Context, req *models.QuoteRequest) (*models.Quote, error)
}

type BookingService interface {
	ValidateBookingRange(start, end time.Time) error
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID, version int64) error
	CancelBooking(ctx context.Context, bookingID, version int64) error
	CompleteBooking(ctx context.Context, bookingID, version int64) error
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	GetRenterBookings(ctx context.Context, renterID int64) ([]*models.Booking, error)
}

type ListingService interface {
	GetActiveListings(ctx context.Context) ([]*models.Listing, error)
	GetListingByID(ctx context.Context, id int64) (*models.Listing, error)
	DeactivateListing(ctx context.Context, id int64) error
	BlockDates(ctx context.Context, listingID int64, dates []time.Time, reason string) error
	UnblockDates(ctx context.Context, listingID int64, dates []time.Time) error
}
