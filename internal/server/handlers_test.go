package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/analysis"
	"github.com/statssync/stats-sync/internal/cache"
	"github.com/statssync/stats-sync/internal/config"
	"github.com/statssync/stats-sync/internal/models"
	"github.com/statssync/stats-sync/internal/parlay"
	"github.com/statssync/stats-sync/internal/provider"
	"github.com/statssync/stats-sync/internal/service"
)

type stubSource struct {
	props []models.PlayerProp
	err   error
}

func (s *stubSource) FetchPlayerProps(ctx context.Context, sport models.SportType, date string) ([]models.PlayerProp, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.props, nil
}

func (s *stubSource) Name() string    { return "stub" }
func (s *stubSource) IsEnabled() bool { return true }

type stubRepository struct {
	rate    float64
	samples int
	form    []bool
}

func (r *stubRepository) HitRate(ctx context.Context, player string, propType models.PropType, window time.Duration) (float64, int, error) {
	return r.rate, r.samples, nil
}

func (r *stubRepository) PropTypeHitRate(ctx context.Context, propType models.PropType, window time.Duration) (float64, int, error) {
	return r.rate, r.samples, nil
}

func (r *stubRepository) RecentForm(ctx context.Context, player string, propType models.PropType, games int) ([]bool, error) {
	return r.form, nil
}

func testPool(n int) []models.PlayerProp {
	teams := []string{"BUF", "MIA", "KC", "BAL", "CIN", "DAL"}
	pool := make([]models.PlayerProp, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, models.PlayerProp{
			PlayerName: fmt.Sprintf("Player %d", i),
			Team:       teams[i%len(teams)],
			Opponent:   "OPP",
			PropType:   models.PropHits,
			Line:       0.5,
			OverOdds:   180,
			UnderOdds:  -220,
			Source:     "test",
		})
	}
	return pool
}

func newTestServer(t *testing.T, source provider.PropSource) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := &stubRepository{rate: 0.8, samples: 20, form: []bool{true, true, true, true, true}}
	scorer := analysis.NewScorer(repo, logger)
	builder := parlay.NewBuilder(logger)
	memCache := cache.NewMemoryCache(time.Minute)
	svc := service.New([]provider.PropSource{source}, scorer, builder, memCache, decimal.NewFromInt(10), logger)

	cfg := &config.Config{}
	cfg.App.Environment = "development"
	cfg.Server.Port = 8000

	return New(cfg, svc, logger)
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, &stubSource{props: testPool(12)})

	w := doRequest(s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestGetParlaysEndpoint(t *testing.T) {
	s := newTestServer(t, &stubSource{props: testPool(12)})

	w := doRequest(s, http.MethodGet, "/parlays?sport=NFL&tier=free", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var body struct {
		Sport   string          `json:"sport"`
		Count   int             `json:"count"`
		Parlays []models.Parlay `json:"parlays"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Sport != "NFL" {
		t.Errorf("sport = %q", body.Sport)
	}
	if body.Count != len(body.Parlays) {
		t.Errorf("count %d does not match %d parlays", body.Count, len(body.Parlays))
	}
	for _, p := range body.Parlays {
		if p.Tier != models.TierFree {
			t.Errorf("parlay %s has tier %s, want free", p.ID, p.Tier)
		}
	}
}

func TestGetParlaysValidation(t *testing.T) {
	s := newTestServer(t, &stubSource{props: testPool(12)})

	tests := []struct {
		name string
		path string
	}{
		{"missing sport", "/parlays"},
		{"unknown sport", "/parlays?sport=NHL"},
		{"unknown tier", "/parlays?sport=NFL&tier=platinum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, http.MethodGet, tt.path, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestRefreshEndpoint(t *testing.T) {
	s := newTestServer(t, &stubSource{props: testPool(12)})

	w := doRequest(s, http.MethodPost, "/parlays/refresh?sport=NFL", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	// After the refresh the cache serves without regeneration.
	w = doRequest(s, http.MethodGet, "/parlays?sport=NFL&tier=free", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestGetPropsEndpoint(t *testing.T) {
	s := newTestServer(t, &stubSource{err: fmt.Errorf("provider down")})

	w := doRequest(s, http.MethodGet, "/props/MLB?date=2024-06-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Count int                `json:"count"`
		Props []models.PlayerProp `json:"props"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Count == 0 {
		t.Fatal("expected fallback props when provider is down")
	}
	for _, p := range body.Props {
		if p.Source != "fallback" {
			t.Errorf("prop source = %q, want fallback", p.Source)
		}
	}
}

func TestGetPropsRejectsBadDate(t *testing.T) {
	s := newTestServer(t, &stubSource{props: testPool(3)})

	w := doRequest(s, http.MethodGet, "/props/NFL?date=June+1st", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCustomParlayEndpoint(t *testing.T) {
	s := newTestServer(t, &stubSource{props: testPool(10)})

	body, _ := json.Marshal(map[string]interface{}{
		"sport":       "NFL",
		"target_odds": 600,
		"max_legs":    4,
	})
	w := doRequest(s, http.MethodPost, "/parlays/custom", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result service.CustomParlayResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(result.Parlay.Legs) < 2 || len(result.Parlay.Legs) > 4 {
		t.Errorf("got %d legs, want 2-4", len(result.Parlay.Legs))
	}
}

func TestCustomParlayValidation(t *testing.T) {
	s := newTestServer(t, &stubSource{props: testPool(10)})

	w := doRequest(s, http.MethodPost, "/parlays/custom", []byte(`{"sport": "NFL"}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing target_odds: status = %d, want 400", w.Code)
	}

	w = doRequest(s, http.MethodPost, "/parlays/custom", []byte(`{"sport": "NHL", "target_odds": 500}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown sport: status = %d, want 400", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t, &stubSource{props: testPool(12)})

	doRequest(s, http.MethodPost, "/parlays/refresh?sport=NFL", nil)

	w := doRequest(s, http.MethodGet, "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stats service.SystemStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if stats.TotalParlaysGenerated == 0 {
		t.Error("expected generated parlays in stats after refresh")
	}
}
