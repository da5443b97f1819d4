package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"renthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetWindow(ctx context.Context, listingID, generation int64, start, end time.Time) (*models.AvailabilityWindow, error) {
	args := m.Called(ctx, listingID, generation, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AvailabilityWindow), args.Error(1)
}

func (m *mockCache) SetWindow(ctx context.Context, generation int64, window *models.AvailabilityWindow, ttl time.Duration) error {
	args := m.Called(ctx, generation, window, ttl)
	return args.Error(0)
}

func (m *mockCache) Generation(ctx context.Context, listingID int64) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCache) BumpGeneration(ctx context.Context, listingID int64) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

func TestFailoverWindowCache(t *testing.T) {
	primary := new(mockCache)
	fallback := new(mockCache)
	logger := zerolog.New(io.Discard)
	cache := NewFailoverWindowCache(primary, fallback, &logger)
	ctx := context.Background()

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	t.Run("PrimarySuccess", func(t *testing.T) {
		window := testWindow(1, start, 7)
		primary.On("GetWindow", ctx, int64(1), int64(0), start, end).Return(window, nil).Once()

		got, err := cache.GetWindow(ctx, 1, 0, start, end)
		assert.NoError(t, err)
		assert.Equal(t, window, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		window := testWindow(2, start, 7)
		primary.On("GetWindow", ctx, int64(2), int64(0), start, end).Return(nil, errors.New("fail")).Once()
		fallback.On("GetWindow", ctx, int64(2), int64(0), start, end).Return(window, nil).Once()

		got, err := cache.GetWindow(ctx, 2, 0, start, end)
		assert.NoError(t, err)
		assert.Equal(t, window, got)
		assert.True(t, cache.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		cache.isDown.Store(true)
		cache.lastCheck.Store(time.Now().Add(-2 * time.Minute).UnixNano())

		window := testWindow(3, start, 7)
		primary.On("GetWindow", ctx, int64(3), int64(0), start, end).Return(window, nil).Once()

		got, err := cache.GetWindow(ctx, 3, 0, start, end)
		assert.NoError(t, err)
		assert.Equal(t, window, got)
		assert.False(t, cache.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("RecoveryAttemptFail", func(t *testing.T) {
		cache.isDown.Store(true)
		cache.lastCheck.Store(time.Now().Add(-2 * time.Minute).UnixNano())

		primary.On("GetWindow", ctx, int64(4), int64(0), start, end).Return(nil, errors.New("still fail")).Once()
		fallback.On("GetWindow", ctx, int64(4), int64(0), start, end).Return(nil, nil).Once()

		_, err := cache.GetWindow(ctx, 4, 0, start, end)
		assert.NoError(t, err)
		assert.True(t, cache.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("SetWindowSuccess", func(t *testing.T) {
		cache.isDown.Store(false)
		window := testWindow(5, start, 7)
		primary.On("SetWindow", ctx, int64(0), window, time.Minute).Return(nil).Once()

		err := cache.SetWindow(ctx, 0, window, time.Minute)
		assert.NoError(t, err)
		primary.AssertExpectations(t)
	})

	t.Run("SetWindowFailover", func(t *testing.T) {
		cache.isDown.Store(false)
		window := testWindow(6, start, 7)
		primary.On("SetWindow", ctx, int64(0), window, time.Minute).Return(errors.New("fail")).Once()
		fallback.On("SetWindow", ctx, int64(0), window, time.Minute).Return(nil).Once()

		err := cache.SetWindow(ctx, 0, window, time.Minute)
		assert.NoError(t, err)
		assert.True(t, cache.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("BumpGenerationMirrorsFallback", func(t *testing.T) {
		cache.isDown.Store(false)
		primary.On("BumpGeneration", ctx, int64(7)).Return(nil).Once()
		fallback.On("BumpGeneration", ctx, int64(7)).Return(nil).Once()

		err := cache.BumpGeneration(ctx, 7)
		assert.NoError(t, err)
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("GenerationAlreadyDown", func(t *testing.T) {
		cache.isDown.Store(true)
		fallback.On("Generation", ctx, int64(8)).Return(int64(2), nil).Once()

		gen, err := cache.Generation(ctx, 8)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), gen)
		fallback.AssertExpectations(t)
	})
}

// Run with -race: readers hit GetWindow while failures rewrite lastCheck.
func TestFailoverWindowCacheConcurrentFailures(t *testing.T) {
	primary := new(mockCache)
	fallback := new(mockCache)
	logger := zerolog.New(io.Discard)
	cache := NewFailoverWindowCache(primary, fallback, &logger)
	ctx := context.Background()

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	primary.On("GetWindow", ctx, int64(1), int64(0), start, end).Return(nil, errors.New("down"))
	fallback.On("GetWindow", ctx, int64(1), int64(0), start, end).Return(testWindow(1, start, 7), nil)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				cache.isDown.Store(false)
				if _, err := cache.GetWindow(ctx, 1, 0, start, end); err != nil {
					t.Errorf("GetWindow failed: %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.True(t, cache.isDown.Load())
}
