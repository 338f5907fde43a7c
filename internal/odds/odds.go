// Package odds provides conversions between American and decimal odds
// notation plus parlay-level aggregation of odds and probabilities.
package odds

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrInvalidAmericanOdds = errors.New("american odds of 0 are undefined")
	ErrInvalidDecimalOdds  = errors.New("decimal odds must be greater than 1.0")
	ErrEmptyParlay         = errors.New("parlay requires at least one leg")
)

// AmericanToDecimal converts American odds to decimal odds.
// +150 -> 2.50, -150 -> 1.67. Odds of exactly 0 are undefined.
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, ErrInvalidAmericanOdds
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds.
// Decimal odds at or above 2.0 map to positive American odds, below 2.0 to
// negative. Values at or below 1.0 would divide by zero and are rejected
// rather than producing an infinity.
func DecimalToAmerican(dec float64) (int, error) {
	if dec <= 1.0 || math.IsNaN(dec) || math.IsInf(dec, 0) {
		return 0, ErrInvalidDecimalOdds
	}
	if dec >= 2.0 {
		return int(math.Round((dec - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (dec - 1.0))), nil
}

// ParlayOdds combines individual American odds into a single parlay price:
// each leg is converted to decimal, the decimals are multiplied, and the
// product is converted back. An empty slice has no meaningful parlay price.
func ParlayOdds(american []int) (int, error) {
	if len(american) == 0 {
		return 0, ErrEmptyParlay
	}
	combined := 1.0
	for _, o := range american {
		dec, err := AmericanToDecimal(o)
		if err != nil {
			return 0, err
		}
		combined *= dec
	}
	return DecimalToAmerican(combined)
}

// PayoutMultiplier returns the total-return multiplier for American odds
// (stake included), which equals the decimal odds.
func PayoutMultiplier(american int) (float64, error) {
	return AmericanToDecimal(american)
}

// Payout returns the total payout for a stake at the given American odds.
func Payout(american int, stake decimal.Decimal) (decimal.Decimal, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return decimal.Zero, err
	}
	return stake.Mul(decimal.NewFromFloat(dec)), nil
}

// RequiredOdds returns the American odds needed for a stake to reach a
// target total payout.
func RequiredOdds(targetPayout, stake float64) (int, error) {
	if stake <= 0 {
		return 0, ErrInvalidDecimalOdds
	}
	return DecimalToAmerican(targetPayout / stake)
}

// HitProbability returns the implied probability of American odds. The
// result is vig-inclusive: probabilities across a market sum to more than 1.
func HitProbability(american int) (float64, error) {
	if american == 0 {
		return 0, ErrInvalidAmericanOdds
	}
	if american > 0 {
		return 100.0 / (float64(american) + 100.0), nil
	}
	abs := float64(-american)
	return abs / (abs + 100.0), nil
}

// ParlayProbability returns the product of the per-leg probabilities.
// Legs are assumed independent, which understates correlation between
// props from the same game. That assumption is inherited from the implied
// probabilities being per-market and is not corrected here.
func ParlayProbability(probs []float64) float64 {
	combined := 1.0
	for _, p := range probs {
		combined *= p
	}
	return combined
}
