package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/metrics"
	"github.com/statssync/stats-sync/internal/models"
)

const sportsDataIOName = "sportsdataio"

// SportsDataIOClient implements PropSource for the SportsDataIO player prop API
type SportsDataIOClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Logger
}

// sportsDataIOProp represents a single prop record from SportsDataIO
type sportsDataIOProp struct {
	PlayerName string  `json:"player_name"`
	Team       string  `json:"team"`
	Opponent   string  `json:"opponent"`
	PropType   string  `json:"prop_type"`
	Line       float64 `json:"line"`
	OverOdds   int     `json:"over_odds"`
	UnderOdds  int     `json:"under_odds"`
	GameDate   string  `json:"game_date"`
	Position   string  `json:"position"`
}

// NewSportsDataIOClient creates a new SportsDataIO API client
func NewSportsDataIOClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *SportsDataIOClient {
	return &SportsDataIOClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchPlayerProps retrieves player props for a sport on the given date
func (c *SportsDataIOClient) FetchPlayerProps(ctx context.Context, sport models.SportType, date string) ([]models.PlayerProp, error) {
	if !c.enabled {
		return nil, NewProviderError(sportsDataIOName, ErrCodeDisabled, "provider is disabled", nil)
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	url := fmt.Sprintf("%s/%s/odds/%s/playerprop", c.baseURL, strings.ToLower(string(sport)), date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewProviderError(sportsDataIOName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	metrics.ProviderRequestsTotal.WithLabelValues(sportsDataIOName).Inc()
	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req)
	metrics.ProviderRequestDuration.WithLabelValues(sportsDataIOName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues(sportsDataIOName).Inc()
		return nil, NewProviderError(sportsDataIOName, ErrCodeNetworkError, "failed to fetch props", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(sportsDataIOName, resp); err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues(sportsDataIOName).Inc()
		return nil, err
	}

	var records []sportsDataIOProp
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues(sportsDataIOName).Inc()
		return nil, NewProviderError(sportsDataIOName, ErrCodeInvalidData, "failed to parse response", err)
	}

	props := make([]models.PlayerProp, 0, len(records))
	for _, rec := range records {
		propType, err := models.ParsePropType(rec.PropType)
		if err != nil {
			metrics.PropsSkippedTotal.WithLabelValues(sportsDataIOName).Inc()
			c.logger.WithFields(logrus.Fields{
				"player":    rec.PlayerName,
				"prop_type": rec.PropType,
			}).Debug("Skipping prop with unrecognized type")
			continue
		}
		props = append(props, models.PlayerProp{
			PlayerName: rec.PlayerName,
			Team:       rec.Team,
			Opponent:   rec.Opponent,
			PropType:   propType,
			Line:       rec.Line,
			OverOdds:   rec.OverOdds,
			UnderOdds:  rec.UnderOdds,
			GameDate:   rec.GameDate,
			Position:   rec.Position,
			Source:     sportsDataIOName,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"sport": sport,
		"date":  date,
		"props": len(props),
	}).Info("Fetched SportsDataIO player props")

	return props, nil
}

// Name returns the provider name
func (c *SportsDataIOClient) Name() string {
	return sportsDataIOName
}

// IsEnabled returns whether this provider is enabled
func (c *SportsDataIOClient) IsEnabled() bool {
	return c.enabled
}

// checkStatus maps non-200 responses to provider errors
func checkStatus(source string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewProviderError(source, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewProviderError(source, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		return NewProviderError(source, ErrCodeNotFound, "no data for request", nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewProviderError(source, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}
}
