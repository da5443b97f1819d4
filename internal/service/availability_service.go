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

// AvailabilityService serves calendar windows through a generation-keyed
// cache. The database stays authoritative; the cache only shortens the read
// path for calendar rendering.
type AvailabilityService struct {
	repo          domain.Repository
	cache         domain.WindowCache
	ttl           time.Duration
	maxWindowDays int
	logger        *zerolog.Logger
}

func NewAvailabilityService(repo domain.Repository, cache domain.WindowCache, ttl time.Duration, maxWindowDays int, logger *zerolog.Logger) *AvailabilityService {
	if ttl <= 0 {
		ttl = time.Duration(models.WindowCacheTTL) * time.Second
	}
	if maxWindowDays <= 0 {
		maxWindowDays = models.DefaultMaxWindowDays
	}
	return &AvailabilityService{
		repo:          repo,
		cache:         cache,
		ttl:           ttl,
		maxWindowDays: maxWindowDays,
		logger:        logger,
	}
}

func (s *AvailabilityService) GetWindow(ctx context.Context, listingID int64, start, end time.Time) (*models.AvailabilityWindow, error) {
	start, end = calc.DateOnly(start), calc.DateOnly(end)
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, database.ErrInvalidRange
	}
	if calc.ComputeDuration(start, end) > s.maxWindowDays {
		return nil, database.ErrWindowTooLarge
	}

	if _, err := s.repo.GetListingByID(ctx, listingID); err != nil {
		return nil, err
	}

	generation, genKnown := s.generation(ctx, listingID)
	if genKnown {
		cached, err := s.cache.GetWindow(ctx, listingID, generation, start, end)
		if err == nil && cached != nil {
			metrics.CacheHits.WithLabelValues("window").Inc()
			return cached, nil
		}
		if err != nil {
			s.logger.Warn().Err(err).Int64("listing_id", listingID).Msg("window cache read failed")
		}
	}
	metrics.CacheMisses.WithLabelValues("window").Inc()

	records, err := s.repo.GetAvailabilityForRange(ctx, listingID, start, end)
	if err != nil {
		// Degrade to an unconfirmed window so calendars still render.
		// Confirmed=false keeps it from authorizing anything.
		s.logger.Error().Err(err).Int64("listing_id", listingID).Msg("availability fetch failed, serving unconfirmed window")
		return &models.AvailabilityWindow{
			ListingID: listingID,
			Start:     start,
			End:       end,
			Confirmed: false,
		}, nil
	}

	window := &models.AvailabilityWindow{
		ListingID: listingID,
		Start:     start,
		End:       end,
		Records:   records,
		Confirmed: true,
	}

	if genKnown {
		// A booking may have landed during the fetch. If the generation
		// moved, this window is already stale: serve it but do not cache it.
		if current, ok := s.generation(ctx, listingID); ok && current == generation {
			if err := s.cache.SetWindow(ctx, generation, window, s.ttl); err != nil {
				s.logger.Warn().Err(err).Int64("listing_id", listingID).Msg("window cache write failed")
			}
		}
	}

	return window, nil
}

// Invalidate orphans every cached window for the listing.
func (s *AvailabilityService) Invalidate(ctx context.Context, listingID int64) error {
	if err := s.cache.BumpGeneration(ctx, listingID); err != nil {
		s.logger.Warn().Err(err).Int64("listing_id", listingID).Msg("cache invalidation failed")
		return err
	}
	return nil
}

func (s *AvailabilityService) generation(ctx context.Context, listingID int64) (int64, bool) {
	gen, err := s.cache.Generation(ctx, listingID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("listing_id", listingID).Msg("generation read failed, bypassing cache")
		return 0, false
	}
	return gen, true
}
