package models

import (
	"fmt"
	"strings"
)

// SportType represents a supported sport
type SportType string

const (
	SportNFL SportType = "NFL"
	SportMLB SportType = "MLB"
)

// AllSports returns every supported sport
func AllSports() []SportType {
	return []SportType{SportNFL, SportMLB}
}

// ParseSportType parses a sport string from a request or provider payload
func ParseSportType(s string) (SportType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NFL":
		return SportNFL, nil
	case "MLB":
		return SportMLB, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSport, s)
	}
}

// PropType represents the statistical category a prop line is written against
type PropType string

const (
	PropHits           PropType = "hits"
	PropHomeRuns       PropType = "home_runs"
	PropRBIs           PropType = "rbis"
	PropStrikeouts     PropType = "strikeouts"
	PropPassingYards   PropType = "passing_yards"
	PropRushingYards   PropType = "rushing_yards"
	PropReceivingYards PropType = "receiving_yards"
	PropReceptions     PropType = "receptions"
)

// ParsePropType parses a prop type string from a provider payload.
// Unrecognized strings return ErrUnknownPropType so callers can skip the
// record instead of ingesting a prop they cannot score.
func ParsePropType(s string) (PropType, error) {
	switch PropType(strings.ToLower(strings.TrimSpace(s))) {
	case PropHits, PropHomeRuns, PropRBIs, PropStrikeouts,
		PropPassingYards, PropRushingYards, PropReceivingYards, PropReceptions:
		return PropType(strings.ToLower(strings.TrimSpace(s))), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPropType, s)
	}
}

// PlayerProp represents a single player prop offer from a provider.
// Odds are American. ConfidenceScore and HitRate are filled in by the
// scoring pass; the prop is treated as immutable once scored.
type PlayerProp struct {
	PlayerName      string    `json:"player_name" validate:"required"`
	Team            string    `json:"team" validate:"required"`
	Opponent        string    `json:"opponent"`
	PropType        PropType  `json:"prop_type" validate:"required"`
	Line            float64   `json:"line"`
	OverOdds        int       `json:"over_odds" validate:"required"`
	UnderOdds       int       `json:"under_odds" validate:"required"`
	GameDate        string    `json:"game_date"`
	Position        string    `json:"position"`
	Source          string    `json:"source"`
	ConfidenceScore float64   `json:"confidence_score"`
	HitRate         float64   `json:"hit_rate"`
	RecentForm      []bool    `json:"recent_form,omitempty"`
}
