package repository

import (
	"context"
	"sync"
	"time"

	"renthub/internal/models"
)

type MemoryWindowCache struct {
	windows     sync.Map
	generations sync.Map
}

func NewMemoryWindowCache() *MemoryWindowCache {
	return &MemoryWindowCache{}
}

type windowEntry struct {
	window    *models.AvailabilityWindow
	expiresAt time.Time
}

func (r *MemoryWindowCache) GetWindow(ctx context.Context, listingID, generation int64, start, end time.Time) (*models.AvailabilityWindow, error) {
	val, ok := r.windows.Load(windowKey(listingID, generation, start, end))
	if !ok {
		return nil, nil
	}
	entry := val.(*windowEntry)
	if time.Now().After(entry.expiresAt) {
		r.windows.Delete(windowKey(listingID, generation, start, end))
		return nil, nil
	}
	return entry.window, nil
}

func (r *MemoryWindowCache) SetWindow(ctx context.Context, generation int64, window *models.AvailabilityWindow, ttl time.Duration) error {
	key := windowKey(window.ListingID, generation, window.Start, window.End)
	r.windows.Store(key, &windowEntry{
		window:    window,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

func (r *MemoryWindowCache) Generation(ctx context.Context, listingID int64) (int64, error) {
	val, ok := r.generations.Load(listingID)
	if !ok {
		return 0, nil
	}
	return val.(int64), nil
}

func (r *MemoryWindowCache) BumpGeneration(ctx context.Context, listingID int64) error {
	for {
		val, ok := r.generations.Load(listingID)
		if !ok {
			if _, loaded := r.generations.LoadOrStore(listingID, int64(1)); !loaded {
				return nil
			}
			continue
		}
		if r.generations.CompareAndSwap(listingID, val, val.(int64)+1) {
			return nil
		}
	}
}
