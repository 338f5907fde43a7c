package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/metrics"
	"github.com/statssync/stats-sync/internal/models"
)

const (
	oddsJamName       = "oddsjam"
	oddsJamSportsbook = "fanduel"
)

// OddsJamClient implements PropSource for the OddsJam game-odds API.
// Only FanDuel prices are ingested.
type OddsJamClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Logger
}

// oddsJamResponse represents the OddsJam game-odds envelope
type oddsJamResponse struct {
	Data []oddsJamGame `json:"data"`
}

type oddsJamGame struct {
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	CommenceTime string          `json:"commence_time"`
	Markets      []oddsJamMarket `json:"markets"`
}

type oddsJamMarket struct {
	Name     string           `json:"name"`
	Outcomes []oddsJamOutcome `json:"outcomes"`
}

type oddsJamOutcome struct {
	Name        string         `json:"name"`
	Point       *float64       `json:"point"`
	Sportsbooks []oddsJamPrice `json:"sportsbooks"`
}

type oddsJamPrice struct {
	Sportsbook string `json:"sportsbook"`
	OverOdds   int    `json:"over_odds"`
	UnderOdds  int    `json:"under_odds"`
}

// NewOddsJamClient creates a new OddsJam API client
func NewOddsJamClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *OddsJamClient {
	return &OddsJamClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchPlayerProps retrieves FanDuel player props for a sport on the given date
func (c *OddsJamClient) FetchPlayerProps(ctx context.Context, sport models.SportType, date string) ([]models.PlayerProp, error) {
	if !c.enabled {
		return nil, NewProviderError(oddsJamName, ErrCodeDisabled, "provider is disabled", nil)
	}

	params := url.Values{}
	params.Set("sport", oddsJamSportKey(sport))
	params.Set("sportsbook", oddsJamSportsbook)
	params.Set("market_name", "player_props")
	params.Set("is_main", "false")
	if date != "" {
		params.Set("date", date)
	}

	endpoint := fmt.Sprintf("%s/game-odds?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewProviderError(oddsJamName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	metrics.ProviderRequestsTotal.WithLabelValues(oddsJamName).Inc()
	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req)
	metrics.ProviderRequestDuration.WithLabelValues(oddsJamName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues(oddsJamName).Inc()
		return nil, NewProviderError(oddsJamName, ErrCodeNetworkError, "failed to fetch game odds", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(oddsJamName, resp); err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues(oddsJamName).Inc()
		return nil, err
	}

	var payload oddsJamResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues(oddsJamName).Inc()
		return nil, NewProviderError(oddsJamName, ErrCodeInvalidData, "failed to parse response", err)
	}

	props := c.transformResponse(&payload, sport)

	c.logger.WithFields(logrus.Fields{
		"sport": sport,
		"games": len(payload.Data),
		"props": len(props),
	}).Info("Fetched OddsJam player props")

	return props, nil
}

// Name returns the provider name
func (c *OddsJamClient) Name() string {
	return oddsJamName
}

// IsEnabled returns whether this provider is enabled
func (c *OddsJamClient) IsEnabled() bool {
	return c.enabled
}

// transformResponse flattens the game/market/outcome nesting into props,
// keeping only outcomes priced by FanDuel.
func (c *OddsJamClient) transformResponse(payload *oddsJamResponse, sport models.SportType) []models.PlayerProp {
	var props []models.PlayerProp

	for _, game := range payload.Data {
		gameDate := game.CommenceTime
		if len(gameDate) >= 10 {
			gameDate = gameDate[:10]
		}

		for _, market := range game.Markets {
			propType, ok := mapMarketToPropType(market.Name, sport)
			if !ok {
				metrics.PropsSkippedTotal.WithLabelValues(oddsJamName).Inc()
				continue
			}

			for _, outcome := range market.Outcomes {
				price, ok := fanDuelPrice(outcome.Sportsbooks)
				if !ok {
					continue
				}

				line := 0.5
				if outcome.Point != nil {
					line = *outcome.Point
				}

				props = append(props, models.PlayerProp{
					PlayerName: outcome.Name,
					Team:       abbreviateTeam(game.HomeTeam),
					Opponent:   abbreviateTeam(game.AwayTeam),
					PropType:   propType,
					Line:       line,
					OverOdds:   price.OverOdds,
					UnderOdds:  price.UnderOdds,
					GameDate:   gameDate,
					Source:     "oddsjam_fanduel",
				})
			}
		}
	}

	return props
}

func fanDuelPrice(books []oddsJamPrice) (oddsJamPrice, bool) {
	for _, book := range books {
		if book.Sportsbook == oddsJamSportsbook {
			return book, true
		}
	}
	return oddsJamPrice{}, false
}

// mapMarketToPropType maps OddsJam market names onto scored prop types.
// Markets that cannot be scored are skipped.
func mapMarketToPropType(marketName string, sport models.SportType) (models.PropType, bool) {
	market := strings.ToLower(marketName)

	switch sport {
	case models.SportMLB:
		switch {
		case strings.Contains(market, "home run") || strings.Contains(market, "homer"):
			return models.PropHomeRuns, true
		case strings.Contains(market, "hit"):
			return models.PropHits, true
		case strings.Contains(market, "rbi"):
			return models.PropRBIs, true
		case strings.Contains(market, "strikeout"):
			return models.PropStrikeouts, true
		}
	case models.SportNFL:
		switch {
		case strings.Contains(market, "passing yard"):
			return models.PropPassingYards, true
		case strings.Contains(market, "rushing yard"):
			return models.PropRushingYards, true
		case strings.Contains(market, "receiving yard"):
			return models.PropReceivingYards, true
		case strings.Contains(market, "reception"):
			return models.PropReceptions, true
		}
	}

	return "", false
}

// oddsJamSportKey maps a sport to the OddsJam sport key
func oddsJamSportKey(sport models.SportType) string {
	switch sport {
	case models.SportNFL:
		return "americanfootball_nfl"
	default:
		return "baseball_mlb"
	}
}

// abbreviateTeam reduces a full team name to a three-letter code
func abbreviateTeam(name string) string {
	trimmed := strings.ReplaceAll(strings.TrimSpace(name), " ", "")
	if len(trimmed) > 3 {
		trimmed = trimmed[:3]
	}
	return strings.ToUpper(trimmed)
}
