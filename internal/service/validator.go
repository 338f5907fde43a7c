package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/metrics"
	"github.com/statssync/stats-sync/internal/models"
)

// PropValidator validates provider props before scoring
type PropValidator struct {
	logger *logrus.Logger
}

// NewPropValidator creates a new prop validator
func NewPropValidator(logger *logrus.Logger) *PropValidator {
	return &PropValidator{logger: logger}
}

// ValidateProp validates a prop for required fields and plausible values
func (v *PropValidator) ValidateProp(prop *models.PlayerProp) []string {
	var errors []string

	if prop.PlayerName == "" {
		errors = append(errors, "player_name is required")
	}

	if prop.Team == "" {
		errors = append(errors, "team is required")
	}

	if _, err := models.ParsePropType(string(prop.PropType)); err != nil {
		errors = append(errors, fmt.Sprintf("unsupported prop_type %q", prop.PropType))
	}

	if prop.Line <= 0 {
		errors = append(errors, fmt.Sprintf("line must be positive, got %g", prop.Line))
	}

	if !isValidAmericanOdds(prop.OverOdds) {
		errors = append(errors, fmt.Sprintf("over_odds out of range, got %d", prop.OverOdds))
	}

	if !isValidAmericanOdds(prop.UnderOdds) {
		errors = append(errors, fmt.Sprintf("under_odds out of range, got %d", prop.UnderOdds))
	}

	if prop.GameDate != "" {
		if _, err := time.Parse("2006-01-02", prop.GameDate); err != nil {
			errors = append(errors, fmt.Sprintf("game_date must be YYYY-MM-DD, got %q", prop.GameDate))
		}
	}

	return errors
}

// FilterValid drops props that fail validation and returns the rest. Dropped
// props are logged and counted against their source.
func (v *PropValidator) FilterValid(props []models.PlayerProp) []models.PlayerProp {
	valid := make([]models.PlayerProp, 0, len(props))
	for i := range props {
		if problems := v.ValidateProp(&props[i]); len(problems) > 0 {
			source := props[i].Source
			if source == "" {
				source = "unknown"
			}
			metrics.PropsSkippedTotal.WithLabelValues(source).Inc()
			v.logger.WithFields(logrus.Fields{
				"player":   props[i].PlayerName,
				"source":   source,
				"problems": problems,
			}).Warn("Dropping invalid prop")
			continue
		}
		valid = append(valid, props[i])
	}
	return valid
}

// isValidAmericanOdds reports whether the price is a plausible american odds
// quote. Books never publish prices between -99 and +99.
func isValidAmericanOdds(odds int) bool {
	return odds >= 100 || odds <= -100
}
