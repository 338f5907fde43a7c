package models

import (
	"fmt"
	"strings"
)

// TierType represents a risk/payout bracket for generated parlays
type TierType string

const (
	TierFree    TierType = "Free"
	TierPremium TierType = "Premium"
	TierGOAT    TierType = "GOAT"
)

// AllTiers returns the tiers in ascending risk order
func AllTiers() []TierType {
	return []TierType{TierFree, TierPremium, TierGOAT}
}

// ParseTierType parses a tier string from a request
func ParseTierType(s string) (TierType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return TierFree, nil
	case "premium":
		return TierPremium, nil
	case "goat":
		return TierGOAT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
}

// TierRequirements holds the static acceptance thresholds for a tier.
// Tiers are configuration, not stateful entities.
type TierRequirements struct {
	MinConfidence    float64 `json:"min_confidence"`
	TargetPayout     float64 `json:"target_payout"` // payout multiplier, e.g. 10 means 10x
	MaxLegs          int     `json:"max_legs"`
	ConservativeBias bool    `json:"conservative_bias"`
}

var tierRequirements = map[TierType]TierRequirements{
	TierFree:    {MinConfidence: 45, TargetPayout: 10, MaxLegs: 6, ConservativeBias: true},
	TierPremium: {MinConfidence: 55, TargetPayout: 25, MaxLegs: 7},
	TierGOAT:    {MinConfidence: 65, TargetPayout: 50, MaxLegs: 8},
}

// RequirementsFor returns the requirements for a tier
func RequirementsFor(tier TierType) (TierRequirements, error) {
	req, ok := tierRequirements[tier]
	if !ok {
		return TierRequirements{}, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	return req, nil
}
