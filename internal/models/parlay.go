package models

import (
	"time"

	"github.com/google/uuid"
)

// Selection represents the side of a prop line taken by a parlay leg
type Selection string

const (
	SelectionOver  Selection = "over"
	SelectionUnder Selection = "under"
)

// ParlayLeg represents one prop selection within a parlay
type ParlayLeg struct {
	Prop       PlayerProp `json:"player_prop"`
	Selection  Selection  `json:"selection" validate:"required,oneof=over under"`
	Odds       int        `json:"odds"`
	Confidence float64    `json:"confidence"`
}

// Parlay represents an assembled multi-leg bet bundle.
// Invariants: no duplicate player across legs; at most 2 legs share a team.
type Parlay struct {
	ID                uuid.UUID   `json:"id"`
	Tier              TierType    `json:"tier"`
	Sport             SportType   `json:"sport"`
	Legs              []ParlayLeg `json:"legs"`
	TotalOdds         int         `json:"total_odds"`
	ExpectedPayout    float64     `json:"expected_payout"` // payout multiplier
	OverallConfidence float64     `json:"overall_confidence"`
	CreatedAt         time.Time   `json:"created_at"`
	GameDate          string      `json:"game_date"`
	Description       string      `json:"description"`
}

// PlayerNames returns the set of player names across legs
func (p *Parlay) PlayerNames() map[string]struct{} {
	names := make(map[string]struct{}, len(p.Legs))
	for _, leg := range p.Legs {
		names[leg.Prop.PlayerName] = struct{}{}
	}
	return names
}

// HasDuplicatePlayers reports whether any player appears on more than one leg
func (p *Parlay) HasDuplicatePlayers() bool {
	return len(p.PlayerNames()) != len(p.Legs)
}

// MaxTeamCount returns the largest number of legs sharing a single team
func (p *Parlay) MaxTeamCount() int {
	counts := make(map[string]int)
	max := 0
	for _, leg := range p.Legs {
		counts[leg.Prop.Team]++
		if counts[leg.Prop.Team] > max {
			max = counts[leg.Prop.Team]
		}
	}
	return max
}

// PlayerOverlap returns the fraction of this parlay's players that also
// appear in other. Used to suppress near-duplicate parlays within a tier.
func (p *Parlay) PlayerOverlap(other *Parlay) float64 {
	if len(p.Legs) == 0 {
		return 0
	}
	mine := p.PlayerNames()
	theirs := other.PlayerNames()
	shared := 0
	for name := range mine {
		if _, ok := theirs[name]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(mine))
}
