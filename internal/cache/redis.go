package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/statssync/stats-sync/internal/config"
	"github.com/statssync/stats-sync/internal/models"
)

// RedisCache is a ParlayCache backed by Redis, used when multiple instances
// should share a parlay slate.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the cached parlays for a sport and tier
func (c *RedisCache) Get(ctx context.Context, sport models.SportType, tier models.TierType) ([]models.Parlay, error) {
	data, err := c.client.Get(ctx, cacheKey(sport, tier)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var parlays []models.Parlay
	if err := json.Unmarshal(data, &parlays); err != nil {
		return nil, fmt.Errorf("failed to decode cached parlays: %w", err)
	}
	return parlays, nil
}

// Set replaces the cached parlays for a sport and tier
func (c *RedisCache) Set(ctx context.Context, sport models.SportType, tier models.TierType, parlays []models.Parlay) error {
	data, err := json.Marshal(parlays)
	if err != nil {
		return fmt.Errorf("failed to encode parlays: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(sport, tier), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
