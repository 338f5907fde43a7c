// Package service orchestrates prop ingestion, scoring, parlay generation,
// and the parlay cache.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/analysis"
	"github.com/statssync/stats-sync/internal/cache"
	"github.com/statssync/stats-sync/internal/metrics"
	"github.com/statssync/stats-sync/internal/models"
	"github.com/statssync/stats-sync/internal/parlay"
	"github.com/statssync/stats-sync/internal/provider"
)

// ErrNoCombination is returned when no prop subset can approach the
// requested target odds.
var ErrNoCombination = errors.New("no prop combination meets the target odds")

const (
	// neutralConfidence is assigned when scoring fails for a prop; the
	// prop stays usable but never clears a tier threshold on its own.
	neutralConfidence = 50.0
	neutralHitRate    = 0.5
)

// ParlayService generates and serves tiered parlays. Generation is
// side-effect-free apart from the cache write, which is last-writer-wins;
// concurrent refreshes for the same sport are wasteful but safe.
type ParlayService struct {
	sources   []provider.PropSource
	scorer    *analysis.Scorer
	builder   *parlay.Builder
	cache     cache.ParlayCache
	validator *PropValidator
	stake     decimal.Decimal
	logger    *logrus.Logger

	mu          sync.Mutex
	generated   map[models.TierType]int
	cacheHits   int
	cacheMisses int
	lastRefresh map[models.SportType]time.Time
}

// New creates a ParlayService
func New(sources []provider.PropSource, scorer *analysis.Scorer, builder *parlay.Builder, parlayCache cache.ParlayCache, stake decimal.Decimal, logger *logrus.Logger) *ParlayService {
	return &ParlayService{
		sources:     sources,
		scorer:      scorer,
		builder:     builder,
		cache:       parlayCache,
		validator:   NewPropValidator(logger),
		stake:       stake,
		logger:      logger,
		generated:   make(map[models.TierType]int),
		lastRefresh: make(map[models.SportType]time.Time),
	}
}

// GetParlays returns the cached parlays for a sport and tier, generating a
// fresh slate on a cache miss or when forceRefresh is set. An empty result
// means no parlay cleared the tier's thresholds.
func (s *ParlayService) GetParlays(ctx context.Context, sport models.SportType, tier models.TierType, forceRefresh bool) ([]models.Parlay, error) {
	if !forceRefresh {
		parlays, err := s.cache.Get(ctx, sport, tier)
		if err == nil {
			metrics.CacheHitsTotal.Inc()
			s.mu.Lock()
			s.cacheHits++
			s.mu.Unlock()
			return parlays, nil
		}
		if !errors.Is(err, cache.ErrNotFound) {
			return nil, fmt.Errorf("cache read failed: %w", err)
		}
		metrics.CacheMissesTotal.Inc()
		s.mu.Lock()
		s.cacheMisses++
		s.mu.Unlock()
	}

	if err := s.Refresh(ctx, sport); err != nil {
		return nil, err
	}

	parlays, err := s.cache.Get(ctx, sport, tier)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache read failed: %w", err)
	}
	return parlays, nil
}

// Refresh regenerates parlays for every tier of a sport and replaces the
// cached slates wholesale.
func (s *ParlayService) Refresh(ctx context.Context, sport models.SportType) error {
	start := time.Now()

	props := s.FetchProps(ctx, sport, "")
	scored := s.scoreProps(ctx, props)
	metrics.EligibleProps.WithLabelValues(string(sport)).Set(float64(len(scored)))

	for _, tier := range models.AllTiers() {
		parlays := s.builder.BuildForTier(scored, sport, tier)
		if err := s.cache.Set(ctx, sport, tier, parlays); err != nil {
			return fmt.Errorf("cache write failed for %s/%s: %w", sport, tier, err)
		}

		metrics.ParlaysGeneratedTotal.WithLabelValues(string(sport), string(tier)).Add(float64(len(parlays)))
		metrics.CachedParlays.WithLabelValues(string(sport), string(tier)).Set(float64(len(parlays)))
		s.mu.Lock()
		s.generated[tier] += len(parlays)
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.lastRefresh[sport] = time.Now().UTC()
	s.mu.Unlock()

	metrics.GenerationDuration.WithLabelValues(string(sport)).Observe(time.Since(start).Seconds())
	s.logger.WithFields(logrus.Fields{
		"sport":    sport,
		"props":    len(scored),
		"duration": time.Since(start),
	}).Info("Refreshed parlays")

	return nil
}

// RefreshAll regenerates parlays for every sport. Per-sport failures are
// logged and do not stop the remaining sports.
func (s *ParlayService) RefreshAll(ctx context.Context) error {
	var lastErr error
	for _, sport := range models.AllSports() {
		if err := s.Refresh(ctx, sport); err != nil {
			s.logger.WithError(err).WithField("sport", sport).Error("Failed to refresh parlays")
			lastErr = err
		}
	}
	return lastErr
}

// FetchProps collects props from every enabled provider and drops records
// that fail validation. Each provider degrades independently; when nothing
// usable remains, the static fallback slate is served instead.
func (s *ParlayService) FetchProps(ctx context.Context, sport models.SportType, date string) []models.PlayerProp {
	var all []models.PlayerProp
	for _, source := range s.sources {
		props, err := source.FetchPlayerProps(ctx, sport, date)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"provider": source.Name(),
				"sport":    sport,
			}).Warn("Provider fetch failed, continuing without it")
			continue
		}
		all = append(all, props...)
	}
	all = s.validator.FilterValid(all)

	if len(all) == 0 {
		metrics.FallbackServesTotal.Inc()
		s.logger.WithField("sport", sport).Warn("No props from any provider, serving fallback dataset")
		return provider.FallbackProps(sport, date)
	}
	return all
}

// scoreProps fills in confidence and hit rate for every prop. A scoring
// failure leaves the prop at neutral values rather than dropping it.
func (s *ParlayService) scoreProps(ctx context.Context, props []models.PlayerProp) []models.PlayerProp {
	scored := make([]models.PlayerProp, len(props))
	for i, p := range props {
		confidence, err := s.scorer.Score(ctx, p.PlayerName, p.PropType, p.Line)
		if err != nil {
			s.logger.WithError(err).WithField("player", p.PlayerName).Warn("Scoring failed, using neutral confidence")
			p.ConfidenceScore = neutralConfidence
			p.HitRate = neutralHitRate
			scored[i] = p
			continue
		}

		hitRate, err := s.scorer.HitRate(ctx, p.PlayerName, p.PropType)
		if err != nil {
			hitRate = neutralHitRate
		}

		p.ConfidenceScore = confidence
		p.HitRate = hitRate
		scored[i] = p
	}
	return scored
}
