// Package cache stores generated parlays per sport and tier between
// refreshes.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/statssync/stats-sync/internal/models"
)

// ErrNotFound is returned when no parlays are cached for a sport and tier
var ErrNotFound = errors.New("cache entry not found")

// ParlayCache stores generated parlays keyed by sport and tier. Writes
// replace the whole entry; a refresh overwrites whatever was cached before.
type ParlayCache interface {
	// Get returns the cached parlays for a sport and tier, or ErrNotFound
	Get(ctx context.Context, sport models.SportType, tier models.TierType) ([]models.Parlay, error)

	// Set replaces the cached parlays for a sport and tier
	Set(ctx context.Context, sport models.SportType, tier models.TierType, parlays []models.Parlay) error

	// Close releases any resources held by the cache
	Close() error
}

// cacheKey builds the storage key for a sport and tier
func cacheKey(sport models.SportType, tier models.TierType) string {
	return fmt.Sprintf("parlays:%s:%s", sport, tier)
}
