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

const theOddsAPIName = "theoddsapi"

// marketKeys maps The Odds API market keys onto scored prop types
var marketKeys = map[models.SportType]map[string]models.PropType{
	models.SportNFL: {
		"player_pass_yds":      models.PropPassingYards,
		"player_rush_yds":      models.PropRushingYards,
		"player_reception_yds": models.PropReceivingYards,
		"player_receptions":    models.PropReceptions,
	},
	models.SportMLB: {
		"batter_hits":        models.PropHits,
		"batter_home_runs":   models.PropHomeRuns,
		"batter_rbis":        models.PropRBIs,
		"pitcher_strikeouts": models.PropStrikeouts,
	},
}

// TheOddsAPIClient implements PropSource for The Odds API v4
type TheOddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Logger
}

type oddsAPIEvent struct {
	HomeTeam     string              `json:"home_team"`
	AwayTeam     string              `json:"away_team"`
	CommenceTime string              `json:"commence_time"`
	Bookmakers   []oddsAPIBookmaker  `json:"bookmakers"`
}

type oddsAPIBookmaker struct {
	Key     string          `json:"key"`
	Markets []oddsAPIMarket `json:"markets"`
}

type oddsAPIMarket struct {
	Key      string           `json:"key"`
	Outcomes []oddsAPIOutcome `json:"outcomes"`
}

type oddsAPIOutcome struct {
	Name        string   `json:"name"` // "Over" or "Under"
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Point       *float64 `json:"point"`
}

// NewTheOddsAPIClient creates a new The Odds API client
func NewTheOddsAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *TheOddsAPIClient {
	return &TheOddsAPIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchPlayerProps retrieves player props for a sport on the given date
func (c *TheOddsAPIClient) FetchPlayerProps(ctx context.Context, sport models.SportType, date string) ([]models.PlayerProp, error) {
	if !c.enabled {
		return nil, NewProviderError(theOddsAPIName, ErrCodeDisabled, "provider is disabled", nil)
	}

	markets := marketKeys[sport]
	keys := make([]string, 0, len(markets))
	for key := range markets {
		keys = append(keys, key)
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", "us")
	params.Set("oddsFormat", "american")
	params.Set("markets", strings.Join(keys, ","))
	if date != "" {
		params.Set("date", date)
	}

	endpoint := fmt.Sprintf("%s/sports/%s/odds?%s", c.baseURL, oddsJamSportKey(sport), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewProviderError(theOddsAPIName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	metrics.ProviderRequestsTotal.WithLabelValues(theOddsAPIName).Inc()
	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req)
	metrics.ProviderRequestDuration.WithLabelValues(theOddsAPIName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues(theOddsAPIName).Inc()
		return nil, NewProviderError(theOddsAPIName, ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(theOddsAPIName, resp); err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues(theOddsAPIName).Inc()
		return nil, err
	}

	var events []oddsAPIEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues(theOddsAPIName).Inc()
		return nil, NewProviderError(theOddsAPIName, ErrCodeInvalidData, "failed to parse response", err)
	}

	props := c.transformEvents(events, sport)

	c.logger.WithFields(logrus.Fields{
		"sport":  sport,
		"events": len(events),
		"props":  len(props),
	}).Info("Fetched The Odds API player props")

	return props, nil
}

// Name returns the provider name
func (c *TheOddsAPIClient) Name() string {
	return theOddsAPIName
}

// IsEnabled returns whether this provider is enabled
func (c *TheOddsAPIClient) IsEnabled() bool {
	return c.enabled
}

// transformEvents pairs Over and Under outcomes per player and line. Props
// missing either side are skipped.
func (c *TheOddsAPIClient) transformEvents(events []oddsAPIEvent, sport models.SportType) []models.PlayerProp {
	markets := marketKeys[sport]

	var props []models.PlayerProp
	for _, event := range events {
		gameDate := event.CommenceTime
		if len(gameDate) >= 10 {
			gameDate = gameDate[:10]
		}

		for _, bookmaker := range event.Bookmakers {
			for _, market := range bookmaker.Markets {
				propType, ok := markets[market.Key]
				if !ok {
					metrics.PropsSkippedTotal.WithLabelValues(theOddsAPIName).Inc()
					continue
				}

				type side struct {
					over, under int
					hasOver     bool
					hasUnder    bool
					line        float64
				}
				byPlayer := make(map[string]*side)
				order := make([]string, 0, len(market.Outcomes))

				for _, outcome := range market.Outcomes {
					entry, seen := byPlayer[outcome.Description]
					if !seen {
						entry = &side{line: 0.5}
						byPlayer[outcome.Description] = entry
						order = append(order, outcome.Description)
					}
					if outcome.Point != nil {
						entry.line = *outcome.Point
					}
					switch outcome.Name {
					case "Over":
						entry.over = outcome.Price
						entry.hasOver = true
					case "Under":
						entry.under = outcome.Price
						entry.hasUnder = true
					}
				}

				for _, player := range order {
					entry := byPlayer[player]
					if !entry.hasOver || !entry.hasUnder {
						continue
					}
					props = append(props, models.PlayerProp{
						PlayerName: player,
						Team:       abbreviateTeam(event.HomeTeam),
						Opponent:   abbreviateTeam(event.AwayTeam),
						PropType:   propType,
						Line:       entry.line,
						OverOdds:   entry.over,
						UnderOdds:  entry.under,
						GameDate:   gameDate,
						Source:     theOddsAPIName,
					})
				}
			}
		}
	}

	return props
}
