package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"renthub/internal/config"
	"renthub/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisWindowCache struct {
	client *redis.Client
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisWindowCache(client *redis.Client) *RedisWindowCache {
	return &RedisWindowCache{client: client}
}

func windowKey(listingID, generation int64, start, end time.Time) string {
	return fmt.Sprintf("avail:%d:%d:%s:%s",
		listingID, generation, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func generationKey(listingID int64) string {
	return fmt.Sprintf("avail:gen:%d", listingID)
}

func (r *RedisWindowCache) GetWindow(ctx context.Context, listingID, generation int64, start, end time.Time) (*models.AvailabilityWindow, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, windowKey(listingID, generation, start, end)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get window from redis: %w", err)
	}

	var window models.AvailabilityWindow
	if err := json.Unmarshal([]byte(val), &window); err != nil {
		return nil, fmt.Errorf("failed to unmarshal window: %w", err)
	}

	return &window, nil
}

func (r *RedisWindowCache) SetWindow(ctx context.Context, generation int64, window *models.AvailabilityWindow, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(window)
	if err != nil {
		return fmt.Errorf("failed to marshal window: %w", err)
	}

	key := windowKey(window.ListingID, generation, window.Start, window.End)
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set window in redis: %w", err)
	}

	return nil
}

func (r *RedisWindowCache) Generation(ctx context.Context, listingID int64) (int64, error) {
	if r.client == nil {
		return 0, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, generationKey(listingID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get generation from redis: %w", err)
	}
	return val, nil
}

// BumpGeneration orphans every window cached for the listing. Stale entries
// expire on their own TTL.
func (r *RedisWindowCache) BumpGeneration(ctx context.Context, listingID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Incr(ctx, generationKey(listingID)).Err(); err != nil {
		return fmt.Errorf("failed to bump generation: %w", err)
	}
	return nil
}

func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
