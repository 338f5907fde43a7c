package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/statssync/stats-sync/internal/models"
	"github.com/statssync/stats-sync/internal/odds"
	"github.com/statssync/stats-sync/internal/parlay"
)

// CustomParlayRequest describes a user-supplied parlay target
type CustomParlayRequest struct {
	Sport      models.SportType
	TargetOdds int
	MaxLegs    int
	MinHitRate float64
}

// CustomParlayResult is a generated parlay with its payout analysis
type CustomParlayResult struct {
	Parlay         models.Parlay   `json:"parlay"`
	Stake          decimal.Decimal `json:"stake"`
	Payout         decimal.Decimal `json:"payout"`
	HitProbability float64         `json:"hit_probability"`
}

const (
	defaultCustomMaxLegs = 8
	defaultMinHitRate    = 0.5
)

// BuildCustomParlay assembles a parlay targeting specific American odds.
// Props are filtered by hit rate, priced by the odds estimator, and fed to
// the combination search. Returns ErrNoCombination when no subset of the
// pool can approach the target.
func (s *ParlayService) BuildCustomParlay(ctx context.Context, req CustomParlayRequest) (*CustomParlayResult, error) {
	if req.MaxLegs <= 0 {
		req.MaxLegs = defaultCustomMaxLegs
	}
	if req.MinHitRate <= 0 {
		req.MinHitRate = defaultMinHitRate
	}

	props := s.scoreProps(ctx, s.FetchProps(ctx, req.Sport, ""))

	pool := make([]parlay.Candidate, 0, len(props))
	for _, p := range props {
		if p.HitRate < req.MinHitRate {
			continue
		}
		pool = append(pool, parlay.Candidate{
			Prop:          p,
			EstimatedOdds: odds.EstimateProp(p.PropType, p.Line, p.HitRate),
			Confidence:    p.ConfidenceScore,
		})
	}

	selected, err := parlay.FindCombination(req.TargetOdds, pool, req.MaxLegs)
	if err != nil {
		return nil, fmt.Errorf("invalid target odds %d: %w", req.TargetOdds, err)
	}
	if len(selected) == 0 {
		return nil, ErrNoCombination
	}

	legs := make([]models.ParlayLeg, 0, len(selected))
	legOdds := make([]int, 0, len(selected))
	probs := make([]float64, 0, len(selected))
	totalConfidence := 0.0
	for _, c := range selected {
		selection := models.SelectionUnder
		if c.EstimatedOdds > 0 {
			selection = models.SelectionOver
		}
		legs = append(legs, models.ParlayLeg{
			Prop:       c.Prop,
			Selection:  selection,
			Odds:       c.EstimatedOdds,
			Confidence: c.Confidence,
		})
		legOdds = append(legOdds, c.EstimatedOdds)
		totalConfidence += c.Confidence

		// The quoted probability comes from the legs' historical hit
		// rates, not the vig-inclusive estimated prices.
		probs = append(probs, c.Prop.HitRate)
	}

	totalOdds, err := odds.ParlayOdds(legOdds)
	if err != nil {
		return nil, fmt.Errorf("failed to price combination: %w", err)
	}
	multiplier, err := odds.PayoutMultiplier(totalOdds)
	if err != nil {
		return nil, fmt.Errorf("failed to price combination: %w", err)
	}
	payout, err := odds.Payout(totalOdds, s.stake)
	if err != nil {
		return nil, fmt.Errorf("failed to price combination: %w", err)
	}

	result := &CustomParlayResult{
		Parlay: models.Parlay{
			ID:                uuid.New(),
			Sport:             req.Sport,
			Legs:              legs,
			TotalOdds:         totalOdds,
			ExpectedPayout:    multiplier,
			OverallConfidence: totalConfidence / float64(len(legs)),
			CreatedAt:         time.Now().UTC(),
			GameDate:          time.Now().UTC().Format("2006-01-02"),
			Description:       fmt.Sprintf("Custom %d-Leg Parlay targeting %+d", len(legs), req.TargetOdds),
		},
		Stake:          s.stake,
		Payout:         payout,
		HitProbability: odds.ParlayProbability(probs),
	}
	return result, nil
}
