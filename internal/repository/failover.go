package repository

import (
	"context"
	"sync/atomic"
	"time"

	"renthub/internal/domain"
	"renthub/internal/models"

	"github.com/rs/zerolog"
)

// FailoverWindowCache serves from the primary cache until it errors, then
// switches to the in-memory fallback and probes the primary once a minute.
type FailoverWindowCache struct {
	primary  domain.WindowCache
	fallback domain.WindowCache
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// lastCheck holds the unix nanos of the last failed primary call.
	// Reads and writes race across request goroutines, hence atomic.
	lastCheck atomic.Int64
}

func NewFailoverWindowCache(primary, fallback domain.WindowCache, logger *zerolog.Logger) *FailoverWindowCache {
	return &FailoverWindowCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverWindowCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary window cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverWindowCache) GetWindow(ctx context.Context, listingID, generation int64, start, end time.Time) (*models.AvailabilityWindow, error) {
	if !r.isDown.Load() {
		window, err := r.primary.GetWindow(ctx, listingID, generation, start, end)
		if err == nil {
			return window, nil
		}
		r.markDown(err)
	}

	// Probe the primary after a minute down.
	if r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute {
		window, err := r.primary.GetWindow(ctx, listingID, generation, start, end)
		if err == nil {
			r.isDown.Store(false)
			return window, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetWindow(ctx, listingID, generation, start, end)
}

func (r *FailoverWindowCache) SetWindow(ctx context.Context, generation int64, window *models.AvailabilityWindow, ttl time.Duration) error {
	if !r.isDown.Load() {
		err := r.primary.SetWindow(ctx, generation, window, ttl)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetWindow(ctx, generation, window, ttl)
}

func (r *FailoverWindowCache) Generation(ctx context.Context, listingID int64) (int64, error) {
	if !r.isDown.Load() {
		gen, err := r.primary.Generation(ctx, listingID)
		if err == nil {
			return gen, nil
		}
		r.markDown(err)
	}

	return r.fallback.Generation(ctx, listingID)
}

func (r *FailoverWindowCache) BumpGeneration(ctx context.Context, listingID int64) error {
	if !r.isDown.Load() {
		err := r.primary.BumpGeneration(ctx, listingID)
		if err == nil {
			// Keep fallback generations moving too so a later failover
			// does not resurrect stale windows.
			_ = r.fallback.BumpGeneration(ctx, listingID)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.BumpGeneration(ctx, listingID)
}
