// Package parlay assembles prop selections into tiered parlay bundles.
package parlay

import (
	"sort"

	"github.com/statssync/stats-sync/internal/models"
	"github.com/statssync/stats-sync/internal/odds"
)

const (
	// maxPoolSize bounds the combination search; C(20, k) keeps the
	// exhaustive enumeration tractable for max legs up to 8.
	maxPoolSize = 20

	// targetTolerance stops the search once a combination lands within
	// 10% of the target decimal odds.
	targetTolerance = 0.10
)

// Candidate is a prop considered by the combination search, carrying the
// estimated odds the combined price is computed from.
type Candidate struct {
	Prop          models.PlayerProp
	EstimatedOdds int
	Confidence    float64
}

// FindCombination searches for a subset of 2..maxLegs candidates whose
// combined decimal odds is closest to the target American odds. The pool is
// sorted by confidence descending and capped at 20 candidates before the
// exhaustive enumeration; the search exits early once a combination is
// within 10% of the target. Returns nil when fewer than two candidates are
// usable. The result is closest-found, not provably optimal beyond the
// searched space.
func FindCombination(targetOdds int, pool []Candidate, maxLegs int) ([]Candidate, error) {
	targetDecimal, err := odds.AmericanToDecimal(targetOdds)
	if err != nil {
		return nil, err
	}

	sorted := make([]Candidate, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	if len(sorted) > maxPoolSize {
		sorted = sorted[:maxPoolSize]
	}

	// Precompute decimal odds, dropping candidates with unusable prices.
	decimals := make([]float64, 0, len(sorted))
	usable := make([]Candidate, 0, len(sorted))
	for _, c := range sorted {
		dec, err := odds.AmericanToDecimal(c.EstimatedOdds)
		if err != nil {
			continue
		}
		usable = append(usable, c)
		decimals = append(decimals, dec)
	}
	if len(usable) < 2 {
		return nil, nil
	}

	search := &combinationSearch{
		candidates:    usable,
		decimals:      decimals,
		targetDecimal: targetDecimal,
		bestDiff:      -1,
	}

	upper := maxLegs
	if upper > len(usable) {
		upper = len(usable)
	}
	for size := 2; size <= upper; size++ {
		search.enumerate(0, size, 1.0, nil)
		if search.withinTolerance() {
			break
		}
	}

	return search.best, nil
}

type combinationSearch struct {
	candidates    []Candidate
	decimals      []float64
	targetDecimal float64
	best          []Candidate
	bestDiff      float64
}

func (s *combinationSearch) withinTolerance() bool {
	return s.best != nil && s.bestDiff < s.targetDecimal*targetTolerance
}

// enumerate walks all index combinations of the remaining size, carrying
// the running decimal product.
func (s *combinationSearch) enumerate(start, remaining int, product float64, picked []int) {
	if s.withinTolerance() {
		return
	}
	if remaining == 0 {
		diff := product - s.targetDecimal
		if diff < 0 {
			diff = -diff
		}
		if s.best == nil || diff < s.bestDiff {
			s.bestDiff = diff
			s.best = make([]Candidate, len(picked))
			for i, idx := range picked {
				s.best[i] = s.candidates[idx]
			}
		}
		return
	}
	for i := start; i <= len(s.candidates)-remaining; i++ {
		s.enumerate(i+1, remaining-1, product*s.decimals[i], append(picked, i))
	}
}
