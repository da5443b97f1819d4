package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"renthub/internal/calc"
	"renthub/internal/database"
	"renthub/internal/domain"
	"renthub/internal/events"
	"renthub/internal/metrics"
	"renthub/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type BookingService struct {
	repo           domain.Repository
	availability   domain.AvailabilityService
	eventBus       domain.EventPublisher
	syncWorker     domain.SyncWorker
	fees           models.FeeTable
	maxAdvanceDays int
	maxStayDays    int
	logger         *zerolog.Logger
}

func NewBookingService(
	repo domain.Repository,
	availability domain.AvailabilityService,
	eventBus domain.EventPublisher,
	syncWorker domain.SyncWorker,
	fees models.FeeTable,
	maxAdvanceDays, maxStayDays int,
	logger *zerolog.Logger,
) *BookingService {
	if maxAdvanceDays <= 0 {
		maxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	if maxStayDays <= 0 {
		maxStayDays = models.DefaultMaxStayDays
	}
	return &BookingService{
		repo:           repo,
		availability:   availability,
		eventBus:       eventBus,
		syncWorker:     syncWorker,
		fees:           fees,
		maxAdvanceDays: maxAdvanceDays,
		maxStayDays:    maxStayDays,
		logger:         logger,
	}
}

func (s *BookingService) ValidateBookingRange(start, end time.Time) error {
	start, end = calc.DateOnly(start), calc.DateOnly(end)
	duration := calc.ComputeDuration(start, end)
	if duration == 0 {
		return database.ErrInvalidRange
	}

	today := calc.DateOnly(time.Now())
	if start.Before(today) {
		return database.ErrPastDate
	}
	if start.After(today.AddDate(0, 0, s.maxAdvanceDays)) {
		return database.ErrDateTooFar
	}
	if duration > s.maxStayDays {
		return database.ErrStayTooLong
	}

	return nil
}

// CreateBooking prices the range server-side and submits it through the
// transactional conflict check. Client-supplied totals are never trusted.
func (s *BookingService) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	start, end := calc.DateOnly(req.StartDate), calc.DateOnly(req.EndDate)
	if err := s.ValidateBookingRange(start, end); err != nil {
		return nil, err
	}

	listing, err := s.repo.GetListingByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	// An unconfirmed window means the database could not vouch for the
	// range. It renders calendars fine but never authorizes a booking.
	if s.availability != nil {
		window, err := s.availability.GetWindow(ctx, listing.ID, start, end)
		if err != nil {
			return nil, err
		}
		if !window.Confirmed {
			return nil, database.ErrAvailabilityUnconfirmed
		}
	}

	opts := req.Options
	if opts.SecurityDepositCents == 0 {
		opts.SecurityDepositCents = listing.SecurityDepositCents
	}

	duration := calc.ComputeDuration(start, end)
	pricing, err := calc.ComputePricing(listing.Rates, duration, opts, s.fees)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Reference:   newReference(),
		ListingID:   listing.ID,
		ListingName: listing.Name,
		RenterID:    req.RenterID,
		RenterName:  req.RenterName,
		Phone:       req.Phone,
		StartDate:   start,
		EndDate:     end,
		Duration:    duration,
		Pricing:     pricing,
		Status:      models.StatusPending,
		Comment:     req.Comment,
	}

	if err := s.repo.CreateBookingWithLock(ctx, booking); err != nil {
		if _, ok := err.(*database.RangeConflictError); ok {
			metrics.RangeConflicts.Inc()
		}
		return nil, err
	}
	metrics.BookingsCreated.Inc()

	s.invalidate(ctx, listing.ID)
	s.publishEvent(events.EventBookingCreated, booking)
	s.enqueueSync(ctx, booking, "upsert")

	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID, version int64) error {
	return s.transition(ctx, bookingID, version, models.StatusConfirmed, events.EventBookingConfirmed)
}

// CancelBooking frees the booked days; the cache invalidation makes them
// selectable again immediately.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, version int64) error {
	return s.transition(ctx, bookingID, version, models.StatusCanceled, events.EventBookingCanceled)
}

func (s *BookingService) CompleteBooking(ctx context.Context, bookingID, version int64) error {
	return s.transition(ctx, bookingID, version, models.StatusCompleted, events.EventBookingCompleted)
}

func (s *BookingService) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	return s.repo.GetBookingsByDateRange(ctx, start, end)
}

func (s *BookingService) GetRenterBookings(ctx context.Context, renterID int64) ([]*models.Booking, error) {
	return s.repo.GetRenterBookings(ctx, renterID)
}

func (s *BookingService) transition(ctx context.Context, bookingID, version int64, status, eventType string) error {
	if err := s.repo.UpdateBookingStatusWithVersion(ctx, bookingID, version, status); err != nil {
		return err
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err == nil {
		s.invalidate(ctx, booking.ListingID)
		s.publishEvent(eventType, booking)
		s.enqueueSync(ctx, booking, "update_status")
	}

	return nil
}

func (s *BookingService) invalidate(ctx context.Context, listingID int64) {
	if s.availability == nil {
		return
	}
	if err := s.availability.Invalidate(ctx, listingID); err != nil {
		s.logger.Warn().Err(err).Int64("listing_id", listingID).Msg("availability invalidation failed")
	}
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:       booking.ID,
		Reference:       booking.Reference,
		RenterID:        booking.RenterID,
		RenterName:      booking.RenterName,
		ListingID:       booking.ListingID,
		ListingName:     booking.ListingName,
		Status:          booking.Status,
		StartDate:       booking.StartDate,
		EndDate:         booking.EndDate,
		Duration:        booking.Duration,
		TotalCents:      booking.Pricing.TotalRenterPaysCents,
		OwnerEarnsCents: booking.Pricing.OwnerEarnsCents,
		Comment:         booking.Comment,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, booking *models.Booking, taskType string) {
	if s.syncWorker == nil {
		return
	}

	var status string
	if taskType == "update_status" {
		status = booking.Status
	}

	if err := s.syncWorker.EnqueueTask(ctx, taskType, booking.ID, booking, status); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Str("task", taskType).Msg("sync enqueue error")
	}
}

func newReference() string {
	return fmt.Sprintf("BK-%s", strings.ToUpper(uuid.NewString()[:8]))
}
