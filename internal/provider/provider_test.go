package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, testLogger())
}

func TestSportsDataIOFetchPlayerProps(t *testing.T) {
	payload := `[
		{"player_name": "Josh Allen", "team": "BUF", "opponent": "MIA",
		 "prop_type": "passing_yards", "line": 275.5,
		 "over_odds": -110, "under_odds": -110,
		 "game_date": "2024-09-08", "position": "QB"},
		{"player_name": "Dak Prescott", "team": "DAL", "opponent": "NYG",
		 "prop_type": "passing_touchdowns", "line": 1.5,
		 "over_odds": -115, "under_odds": -105,
		 "game_date": "2024-09-08", "position": "QB"}
	]`

	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payload)
	}))
	defer server.Close()

	client := NewSportsDataIOClient(testHTTPClient(), server.URL, "test-key", true, testLogger())
	props, err := client.FetchPlayerProps(context.Background(), models.SportNFL, "2024-09-08")
	if err != nil {
		t.Fatalf("FetchPlayerProps returned error: %v", err)
	}

	if gotPath != "/nfl/odds/2024-09-08/playerprop" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("subscription key header = %q", gotKey)
	}

	// The passing_touchdowns record cannot be scored and is skipped.
	if len(props) != 1 {
		t.Fatalf("got %d props, want 1", len(props))
	}
	p := props[0]
	if p.PlayerName != "Josh Allen" || p.PropType != models.PropPassingYards {
		t.Errorf("unexpected prop: %+v", p)
	}
	if p.Source != "sportsdataio" {
		t.Errorf("source = %q", p.Source)
	}
}

func TestSportsDataIOAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewSportsDataIOClient(testHTTPClient(), server.URL, "bad-key", true, testLogger())
	_, err := client.FetchPlayerProps(context.Background(), models.SportNFL, "2024-09-08")

	var provErr ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Code != ErrCodeAuthenticationFailed {
		t.Errorf("error code = %q, want %q", provErr.Code, ErrCodeAuthenticationFailed)
	}
}

func TestSportsDataIODisabled(t *testing.T) {
	client := NewSportsDataIOClient(testHTTPClient(), "http://unused", "key", false, testLogger())
	_, err := client.FetchPlayerProps(context.Background(), models.SportNFL, "")

	var provErr ProviderError
	if !errors.As(err, &provErr) || provErr.Code != ErrCodeDisabled {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestOddsJamFetchPlayerProps(t *testing.T) {
	payload := `{"data": [{
		"home_team": "New York Yankees",
		"away_team": "Boston Red Sox",
		"commence_time": "2024-07-04T17:05:00Z",
		"markets": [
			{"name": "Player Hits Over/Under", "outcomes": [
				{"name": "Aaron Judge", "point": 1.5, "sportsbooks": [
					{"sportsbook": "fanduel", "over_odds": -115, "under_odds": -105},
					{"sportsbook": "draftkings", "over_odds": -120, "under_odds": -100}
				]},
				{"name": "Anthony Volpe", "point": 0.5, "sportsbooks": [
					{"sportsbook": "draftkings", "over_odds": -200, "under_odds": 170}
				]}
			]},
			{"name": "Player Stolen Bases", "outcomes": [
				{"name": "Anthony Volpe", "point": 0.5, "sportsbooks": [
					{"sportsbook": "fanduel", "over_odds": 250, "under_odds": -320}
				]}
			]}
		]
	}]}`

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Query().Get("sportsbook") != "fanduel" {
			t.Errorf("sportsbook param = %q", r.URL.Query().Get("sportsbook"))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payload)
	}))
	defer server.Close()

	client := NewOddsJamClient(testHTTPClient(), server.URL, "jam-key", true, testLogger())
	props, err := client.FetchPlayerProps(context.Background(), models.SportMLB, "2024-07-04")
	if err != nil {
		t.Fatalf("FetchPlayerProps returned error: %v", err)
	}

	if gotAuth != "Bearer jam-key" {
		t.Errorf("authorization header = %q", gotAuth)
	}

	// Volpe's hits outcome has no FanDuel price and the stolen bases market
	// is unmapped, so only Judge survives.
	if len(props) != 1 {
		t.Fatalf("got %d props, want 1", len(props))
	}
	p := props[0]
	if p.PlayerName != "Aaron Judge" || p.PropType != models.PropHits {
		t.Errorf("unexpected prop: %+v", p)
	}
	if p.OverOdds != -115 || p.UnderOdds != -105 {
		t.Errorf("odds = %d/%d, want FanDuel prices", p.OverOdds, p.UnderOdds)
	}
	if p.GameDate != "2024-07-04" {
		t.Errorf("game date = %q", p.GameDate)
	}
}

func TestTheOddsAPIPairsOverUnder(t *testing.T) {
	payload := `[{
		"home_team": "Buffalo Bills",
		"away_team": "Miami Dolphins",
		"commence_time": "2024-09-08T17:00:00Z",
		"bookmakers": [{"key": "fanduel", "markets": [
			{"key": "player_pass_yds", "outcomes": [
				{"name": "Over", "description": "Josh Allen", "price": -112, "point": 275.5},
				{"name": "Under", "description": "Josh Allen", "price": -108, "point": 275.5},
				{"name": "Over", "description": "Tua Tagovailoa", "price": -110, "point": 250.5}
			]},
			{"key": "player_anytime_td", "outcomes": [
				{"name": "Yes", "description": "Raheem Mostert", "price": 120}
			]}
		]}]
	}]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") != "odds-key" {
			t.Errorf("apiKey param = %q", r.URL.Query().Get("apiKey"))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payload)
	}))
	defer server.Close()

	client := NewTheOddsAPIClient(testHTTPClient(), server.URL, "odds-key", true, testLogger())
	props, err := client.FetchPlayerProps(context.Background(), models.SportNFL, "")
	if err != nil {
		t.Fatalf("FetchPlayerProps returned error: %v", err)
	}

	// Tagovailoa is missing an under price and anytime TD is unmapped.
	if len(props) != 1 {
		t.Fatalf("got %d props, want 1", len(props))
	}
	p := props[0]
	if p.PlayerName != "Josh Allen" || p.Line != 275.5 {
		t.Errorf("unexpected prop: %+v", p)
	}
	if p.OverOdds != -112 || p.UnderOdds != -108 {
		t.Errorf("odds = %d/%d", p.OverOdds, p.UnderOdds)
	}
}

func TestFallbackProps(t *testing.T) {
	for _, sport := range models.AllSports() {
		props := FallbackProps(sport, "2024-06-01")
		if len(props) == 0 {
			t.Fatalf("no fallback props for %s", sport)
		}
		for _, p := range props {
			if p.Source != "fallback" {
				t.Errorf("source = %q, want fallback", p.Source)
			}
			if p.GameDate != "2024-06-01" {
				t.Errorf("game date = %q", p.GameDate)
			}
			if _, err := models.ParsePropType(string(p.PropType)); err != nil {
				t.Errorf("fallback prop type %q is not scoreable", p.PropType)
			}
		}
	}
}

func TestMapMarketToPropType(t *testing.T) {
	tests := []struct {
		market string
		sport  models.SportType
		want   models.PropType
		ok     bool
	}{
		{"Player Home Runs", models.SportMLB, models.PropHomeRuns, true},
		{"Player Hits O/U", models.SportMLB, models.PropHits, true},
		{"Pitcher Strikeouts", models.SportMLB, models.PropStrikeouts, true},
		{"Player Passing Yards", models.SportNFL, models.PropPassingYards, true},
		{"Player Receptions", models.SportNFL, models.PropReceptions, true},
		{"Player Stolen Bases", models.SportMLB, "", false},
		{"Player Hits O/U", models.SportNFL, "", false},
	}

	for _, tt := range tests {
		got, ok := mapMarketToPropType(tt.market, tt.sport)
		if ok != tt.ok || got != tt.want {
			t.Errorf("mapMarketToPropType(%q, %s) = (%q, %v), want (%q, %v)",
				tt.market, tt.sport, got, ok, tt.want, tt.ok)
		}
	}
}
