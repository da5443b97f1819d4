package repository

import (
	"context"
	"testing"
	"time"

	"renthub/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindow(listingID int64, start time.Time, days int) *models.AvailabilityWindow {
	return &models.AvailabilityWindow{
		ListingID: listingID,
		Start:     start,
		End:       start.AddDate(0, 0, days-1),
		Records: []models.AvailabilityRecord{
			{Date: start, Status: models.DateBooked},
		},
		Confirmed: true,
	}
}

func TestRedisWindowCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	cache := NewRedisWindowCache(client)
	ctx := context.Background()

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	t.Run("SetAndGetWindow", func(t *testing.T) {
		window := testWindow(1, start, 7)
		require.NoError(t, cache.SetWindow(ctx, 0, window, time.Minute))

		got, err := cache.GetWindow(ctx, 1, 0, window.Start, window.End)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, window.ListingID, got.ListingID)
		assert.True(t, got.Start.Equal(window.Start))
		require.Len(t, got.Records, 1)
		assert.Equal(t, models.DateBooked, got.Records[0].Status)
		assert.True(t, got.Confirmed)
	})

	t.Run("GetMissingWindow", func(t *testing.T) {
		got, err := cache.GetWindow(ctx, 99, 0, start, start.AddDate(0, 0, 6))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("WindowExpires", func(t *testing.T) {
		window := testWindow(2, start, 7)
		require.NoError(t, cache.SetWindow(ctx, 0, window, time.Minute))

		s.FastForward(time.Minute + time.Second)

		got, err := cache.GetWindow(ctx, 2, 0, window.Start, window.End)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("GenerationStartsAtZero", func(t *testing.T) {
		gen, err := cache.Generation(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(0), gen)
	})

	t.Run("BumpGenerationOrphansWindows", func(t *testing.T) {
		window := testWindow(4, start, 7)
		require.NoError(t, cache.SetWindow(ctx, 0, window, time.Minute))

		require.NoError(t, cache.BumpGeneration(ctx, 4))

		gen, err := cache.Generation(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(1), gen)

		// Old window is keyed under generation 0, so the new generation
		// no longer sees it.
		got, err := cache.GetWindow(ctx, 4, gen, window.Start, window.End)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("NilClient", func(t *testing.T) {
		cache := NewRedisWindowCache(nil)
		_, err := cache.GetWindow(ctx, 1, 0, start, start)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})

	t.Run("Close", func(t *testing.T) {
		assert.NoError(t, Close(client))
	})
}
