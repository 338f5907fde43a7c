package service

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statssync/stats-sync/internal/models"
)

func newTestValidator() *PropValidator {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewPropValidator(logger)
}

func validProp() models.PlayerProp {
	return models.PlayerProp{
		PlayerName: "Josh Allen",
		Team:       "BUF",
		Opponent:   "MIA",
		PropType:   models.PropPassingYards,
		Line:       275.5,
		OverOdds:   -110,
		UnderOdds:  -110,
		GameDate:   "2024-09-08",
		Source:     "test",
	}
}

func TestPropValidation(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		name        string
		mutate      func(*models.PlayerProp)
		expectValid bool
		shouldHave  string
	}{
		{
			name:        "valid prop",
			mutate:      func(p *models.PlayerProp) {},
			expectValid: true,
		},
		{
			name:        "missing player name",
			mutate:      func(p *models.PlayerProp) { p.PlayerName = "" },
			expectValid: false,
			shouldHave:  "player_name is required",
		},
		{
			name:        "missing team",
			mutate:      func(p *models.PlayerProp) { p.Team = "" },
			expectValid: false,
			shouldHave:  "team is required",
		},
		{
			name:        "unsupported prop type",
			mutate:      func(p *models.PlayerProp) { p.PropType = "total_bases" },
			expectValid: false,
			shouldHave:  "unsupported prop_type",
		},
		{
			name:        "zero line",
			mutate:      func(p *models.PlayerProp) { p.Line = 0 },
			expectValid: false,
			shouldHave:  "line must be positive",
		},
		{
			name:        "implausible over odds",
			mutate:      func(p *models.PlayerProp) { p.OverOdds = -50 },
			expectValid: false,
			shouldHave:  "over_odds out of range",
		},
		{
			name:        "zero under odds",
			mutate:      func(p *models.PlayerProp) { p.UnderOdds = 0 },
			expectValid: false,
			shouldHave:  "under_odds out of range",
		},
		{
			name:        "malformed game date",
			mutate:      func(p *models.PlayerProp) { p.GameDate = "Sept 8" },
			expectValid: false,
			shouldHave:  "game_date must be YYYY-MM-DD",
		},
		{
			name:        "empty game date allowed",
			mutate:      func(p *models.PlayerProp) { p.GameDate = "" },
			expectValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop := validProp()
			tt.mutate(&prop)

			problems := validator.ValidateProp(&prop)
			if tt.expectValid {
				assert.Empty(t, problems)
				return
			}

			require.NotEmpty(t, problems, "expected validation errors")
			found := false
			for _, p := range problems {
				if strings.Contains(p, tt.shouldHave) {
					found = true
				}
			}
			assert.True(t, found, "expected error containing %q, got %v", tt.shouldHave, problems)
		})
	}
}

func TestFilterValidDropsBadProps(t *testing.T) {
	validator := newTestValidator()

	good := validProp()
	bad := validProp()
	bad.PlayerName = ""

	kept := validator.FilterValid([]models.PlayerProp{good, bad})
	require.Len(t, kept, 1)
	assert.Equal(t, "Josh Allen", kept[0].PlayerName)
}

func TestFilterValidKeepsEmptySlate(t *testing.T) {
	validator := newTestValidator()
	assert.Empty(t, validator.FilterValid(nil))
}
