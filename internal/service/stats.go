package service

import (
	"context"
	"errors"
	"time"

	"github.com/statssync/stats-sync/internal/cache"
	"github.com/statssync/stats-sync/internal/models"
)

// TierStats summarizes the cached parlays for one tier across sports
type TierStats struct {
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
	AvgLegs       float64 `json:"avg_legs"`
}

// SystemStats reports generation counters and the state of the cache
type SystemStats struct {
	TotalParlaysGenerated int                                `json:"total_parlays_generated"`
	GeneratedByTier       map[models.TierType]int            `json:"generated_by_tier"`
	CachedByTier          map[models.TierType]TierStats      `json:"cached_by_tier"`
	CacheHits             int                                `json:"cache_hits"`
	CacheMisses           int                                `json:"cache_misses"`
	LastRefresh           map[models.SportType]time.Time     `json:"last_refresh"`
}

// Stats returns a snapshot of generation counters and cached-slate summaries
func (s *ParlayService) Stats(ctx context.Context) SystemStats {
	s.mu.Lock()
	stats := SystemStats{
		GeneratedByTier: make(map[models.TierType]int, len(s.generated)),
		CacheHits:       s.cacheHits,
		CacheMisses:     s.cacheMisses,
		LastRefresh:     make(map[models.SportType]time.Time, len(s.lastRefresh)),
	}
	for tier, count := range s.generated {
		stats.GeneratedByTier[tier] = count
		stats.TotalParlaysGenerated += count
	}
	for sport, at := range s.lastRefresh {
		stats.LastRefresh[sport] = at
	}
	s.mu.Unlock()

	stats.CachedByTier = make(map[models.TierType]TierStats, len(models.AllTiers()))
	for _, tier := range models.AllTiers() {
		var count, legs int
		var confidence float64
		for _, sport := range models.AllSports() {
			parlays, err := s.cache.Get(ctx, sport, tier)
			if err != nil {
				if !errors.Is(err, cache.ErrNotFound) {
					s.logger.WithError(err).Warn("Failed to read cache for stats")
				}
				continue
			}
			for i := range parlays {
				count++
				legs += len(parlays[i].Legs)
				confidence += parlays[i].OverallConfidence
			}
		}

		tierStats := TierStats{Count: count}
		if count > 0 {
			tierStats.AvgConfidence = confidence / float64(count)
			tierStats.AvgLegs = float64(legs) / float64(count)
		}
		stats.CachedByTier[tier] = tierStats
	}

	return stats
}
