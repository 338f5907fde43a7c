package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/statssync/stats-sync/internal/models"
)

// MemoryCache is an in-process ParlayCache with per-entry expiry
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates an in-memory cache with the given TTL
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

// Get returns the cached parlays for a sport and tier
func (c *MemoryCache) Get(ctx context.Context, sport models.SportType, tier models.TierType) ([]models.Parlay, error) {
	value, found := c.store.Get(cacheKey(sport, tier))
	if !found {
		return nil, ErrNotFound
	}
	parlays, ok := value.([]models.Parlay)
	if !ok {
		return nil, ErrNotFound
	}
	return parlays, nil
}

// Set replaces the cached parlays for a sport and tier
func (c *MemoryCache) Set(ctx context.Context, sport models.SportType, tier models.TierType, parlays []models.Parlay) error {
	c.store.Set(cacheKey(sport, tier), parlays, gocache.DefaultExpiration)
	return nil
}

// Close is a no-op for the in-memory cache
func (c *MemoryCache) Close() error {
	return nil
}
