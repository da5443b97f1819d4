package service

import (
	"context"
	"time"

	"renthub/internal/calc"
	"renthub/internal/domain"
	"renthub/internal/events"
	"renthub/internal/models"

	"github.com/rs/zerolog"
)

type ListingService struct {
	repo         domain.Repository
	availability domain.AvailabilityService
	eventBus     domain.EventPublisher
	logger       *zerolog.Logger
}

func NewListingService(repo domain.Repository, availability domain.AvailabilityService, eventBus domain.EventPublisher, logger *zerolog.Logger) *ListingService {
	return &ListingService{
		repo:         repo,
		availability: availability,
		eventBus:     eventBus,
		logger:       logger,
	}
}

func (s *ListingService) GetActiveListings(ctx context.Context) ([]*models.Listing, error) {
	return s.repo.GetActiveListings(ctx)
}

func (s *ListingService) GetListingByID(ctx context.Context, id int64) (*models.Listing, error) {
	return s.repo.GetListingByID(ctx, id)
}

// DeactivateListing hides the listing from new quotes and bookings.
// Existing bookings keep their history.
func (s *ListingService) DeactivateListing(ctx context.Context, id int64) error {
	if err := s.repo.DeactivateListing(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info().Int64("listing_id", id).Msg("listing deactivated")
	return nil
}

func (s *ListingService) BlockDates(ctx context.Context, listingID int64, dates []time.Time, reason string) error {
	days := make([]time.Time, len(dates))
	for i, d := range dates {
		days[i] = calc.DateOnly(d)
	}

	if err := s.repo.BlockDates(ctx, listingID, days, reason); err != nil {
		return err
	}

	s.invalidate(ctx, listingID)
	if s.eventBus != nil {
		payload := events.DatesBlockedPayload{ListingID: listingID, Dates: days, Reason: reason}
		if err := s.eventBus.PublishJSON(events.EventDatesBlocked, payload); err != nil {
			s.logger.Error().Err(err).Int64("listing_id", listingID).Msg("publish event error")
		}
	}
	return nil
}

func (s *ListingService) UnblockDates(ctx context.Context, listingID int64, dates []time.Time) error {
	days := make([]time.Time, len(dates))
	for i, d := range dates {
		days[i] = calc.DateOnly(d)
	}

	if err := s.repo.UnblockDates(ctx, listingID, days); err != nil {
		return err
	}

	s.invalidate(ctx, listingID)
	return nil
}

func (s *ListingService) invalidate(ctx context.Context, listingID int64) {
	if s.availability == nil {
		return
	}
	if err := s.availability.Invalidate(ctx, listingID); err != nil {
		s.logger.Warn().Err(err).Int64("listing_id", listingID).Msg("availability invalidation failed")
	}
}
