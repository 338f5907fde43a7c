// Package analysis blends historical hit rates with recent form into
// per-prop confidence scores.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/history"
	"github.com/statssync/stats-sync/internal/models"
)

const (
	defaultHitRateWindow = 90 * 24 * time.Hour
	defaultFormGames     = 5

	// neutralRate is used when no history exists at any fallback level.
	neutralRate = 0.5
)

// Scorer computes 0-100 confidence scores for player props from an injected
// read-only history repository. The score is a heuristic: no confidence
// interval or sample-size discounting is applied.
type Scorer struct {
	history       history.Repository
	logger        *logrus.Logger
	hitRateWindow time.Duration
	formGames     int
}

// NewScorer creates a scorer with the default 90-day hit-rate window and
// 5-game recent-form lookback.
func NewScorer(repo history.Repository, logger *logrus.Logger) *Scorer {
	return &Scorer{
		history:       repo,
		logger:        logger,
		hitRateWindow: defaultHitRateWindow,
		formGames:     defaultFormGames,
	}
}

// Score returns a confidence score in [0, 100] for a prop.
// base = hit rate * 100; adjustment = (recent form weight - 0.5) * 40.
func (s *Scorer) Score(ctx context.Context, player string, propType models.PropType, line float64) (float64, error) {
	hitRate, err := s.HitRate(ctx, player, propType)
	if err != nil {
		return 0, err
	}

	form, err := s.history.RecentForm(ctx, player, propType, s.formGames)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch recent form for %s: %w", player, err)
	}

	base := hitRate * 100
	adjustment := (FormWeight(form) - 0.5) * 40

	return clamp(base+adjustment, 0, 100), nil
}

// HitRate returns the player's hit rate for a prop type over the scoring
// window, falling back to the prop type's aggregate rate and then to a
// neutral 0.5 when no data exists.
func (s *Scorer) HitRate(ctx context.Context, player string, propType models.PropType) (float64, error) {
	rate, samples, err := s.history.HitRate(ctx, player, propType, s.hitRateWindow)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch hit rate for %s: %w", player, err)
	}
	if samples > 0 {
		return rate, nil
	}

	rate, samples, err = s.history.PropTypeHitRate(ctx, propType, s.hitRateWindow)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch aggregate hit rate for %s: %w", propType, err)
	}
	if samples > 0 {
		s.logger.WithFields(logrus.Fields{
			"player":    player,
			"prop_type": propType,
		}).Debug("No player history, using prop type aggregate hit rate")
		return rate, nil
	}

	return neutralRate, nil
}

// FormWeight computes a linearly time-weighted average of recent hit/miss
// results. form is ordered most recent first; the most recent game gets
// weight len(form), the oldest weight 1. Empty form is neutral 0.5.
func FormWeight(form []bool) float64 {
	if len(form) == 0 {
		return neutralRate
	}

	n := len(form)
	weightedSum, totalWeight := 0.0, 0.0
	for i, hit := range form {
		weight := float64(n - i)
		if hit {
			weightedSum += weight
		}
		totalWeight += weight
	}
	return weightedSum / totalWeight
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
