package service

import (
	"context"
	"time"

	"renthub/internal/calc"
	"renthub/internal/database"
	"renthub/internal/domain"
	"renthub/internal/metrics"
	"renthub/internal/models"

	"github.com/rs/zerolog"
)

// QuoteService builds advisory priced summaries. A quote never reserves
// anything: conflicts listed here are warnings, and the binding check runs
// at booking creation.
type QuoteService struct {
	repo         domain.Repository
	availability domain.AvailabilityService
	fees         models.FeeTable
	logger       *zerolog.Logger
}

func NewQuoteService(repo domain.Repository, availability domain.AvailabilityService, fees models.FeeTable, logger *zerolog.Logger) *QuoteService {
	return &QuoteService{
		repo:         repo,
		availability: availability,
		fees:         fees,
		logger:       logger,
	}
}

func (s *QuoteService) BuildQuote(ctx context.Context, req *models.QuoteRequest) (*models.Quote, error) {
	start, end := calc.DateOnly(req.StartDate), calc.DateOnly(req.EndDate)
	duration := calc.ComputeDuration(start, end)
	if duration == 0 {
		return nil, database.ErrInvalidRange
	}

	listing, err := s.repo.GetListingByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	opts := req.Options
	if opts.SecurityDepositCents == 0 {
		opts.SecurityDepositCents = listing.SecurityDepositCents
	}

	pricing, err := calc.ComputePricing(listing.Rates, duration, opts, s.fees)
	if err != nil {
		return nil, err
	}

	quote := &models.Quote{
		ListingID:   listing.ID,
		ListingName: listing.Name,
		StartDate:   start,
		EndDate:     end,
		Duration:    duration,
		Pricing:     pricing,
		CreatedAt:   time.Now(),
	}

	window, err := s.availability.GetWindow(ctx, listing.ID, start, end)
	if err == nil && window.Confirmed {
		quote.ConflictDates = calc.ConflictingDates(start, end, window.Records)
		quote.AvailabilityConfirmed = true
	} else {
		if err != nil {
			s.logger.Warn().Err(err).Int64("listing_id", listing.ID).Msg("availability lookup failed for quote")
		}
		// The window could not vouch for the range; ask sqlite directly.
		// Both paths failing still prices the quote, just unconfirmed.
		conflicts, checkErr := s.repo.CheckRangeAvailability(ctx, listing.ID, start, end)
		if checkErr != nil {
			s.logger.Warn().Err(checkErr).Int64("listing_id", listing.ID).Msg("direct availability check failed for quote")
		} else {
			quote.ConflictDates = conflicts
			quote.AvailabilityConfirmed = true
		}
	}

	metrics.QuotesBuilt.Inc()
	return quote, nil
}
