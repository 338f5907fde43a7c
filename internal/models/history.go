package models

import "time"

// HistoricalPropRecord represents one settled prop result from the
// historical data store. Records are read-only reference data.
type HistoricalPropRecord struct {
	PlayerName   string    `db:"player_name" json:"player_name"`
	Date         time.Time `db:"date" json:"date"`
	PropType     PropType  `db:"prop_type" json:"prop_type"`
	Line         float64   `db:"line" json:"line"`
	ActualResult float64   `db:"actual_result" json:"actual_result"`
	Hit          bool      `db:"hit" json:"hit"`
	Odds         int       `db:"odds" json:"odds"`
	Sport        SportType `db:"sport" json:"sport"`
}
