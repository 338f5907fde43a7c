package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/analysis"
	"github.com/statssync/stats-sync/internal/cache"
	"github.com/statssync/stats-sync/internal/models"
	"github.com/statssync/stats-sync/internal/parlay"
	"github.com/statssync/stats-sync/internal/provider"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// stubSource returns a fixed prop slate or a fixed error
type stubSource struct {
	name  string
	props []models.PlayerProp
	err   error
}

func (s *stubSource) FetchPlayerProps(ctx context.Context, sport models.SportType, date string) ([]models.PlayerProp, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.props, nil
}

func (s *stubSource) Name() string    { return s.name }
func (s *stubSource) IsEnabled() bool { return true }

// stubRepository returns the same hit rate and form for every player
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

func propPool(n int) []models.PlayerProp {
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

func newTestService(sources []provider.PropSource, repo *stubRepository) *ParlayService {
	logger := testLogger()
	scorer := analysis.NewScorer(repo, logger)
	builder := parlay.NewBuilder(logger)
	memCache := cache.NewMemoryCache(time.Minute)
	return New(sources, scorer, builder, memCache, decimal.NewFromInt(10), logger)
}

func TestRefreshPopulatesCache(t *testing.T) {
	source := &stubSource{name: "test", props: propPool(12)}
	// Strong history: hit rate 0.8 with a perfect recent run scores every
	// prop at the confidence ceiling.
	repo := &stubRepository{rate: 0.8, samples: 20, form: []bool{true, true, true, true, true}}
	svc := newTestService([]provider.PropSource{source}, repo)

	if err := svc.Refresh(context.Background(), models.SportNFL); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	parlays, err := svc.GetParlays(context.Background(), models.SportNFL, models.TierFree, false)
	if err != nil {
		t.Fatalf("GetParlays returned error: %v", err)
	}
	if len(parlays) == 0 {
		t.Fatal("expected free-tier parlays after refresh")
	}
	for _, p := range parlays {
		if p.Tier != models.TierFree || p.Sport != models.SportNFL {
			t.Errorf("parlay %s has tier %s sport %s", p.ID, p.Tier, p.Sport)
		}
	}
}

func TestGetParlaysServesCacheWithoutRefetch(t *testing.T) {
	source := &stubSource{name: "test", err: errors.New("should not be called")}
	repo := &stubRepository{rate: 0.8, samples: 20, form: []bool{true}}
	svc := newTestService([]provider.PropSource{source}, repo)

	want := []models.Parlay{{Tier: models.TierPremium, Sport: models.SportMLB}}
	if err := svc.cache.Set(context.Background(), models.SportMLB, models.TierPremium, want); err != nil {
		t.Fatalf("cache Set returned error: %v", err)
	}

	got, err := svc.GetParlays(context.Background(), models.SportMLB, models.TierPremium, false)
	if err != nil {
		t.Fatalf("GetParlays returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d parlays, want 1 from cache", len(got))
	}

	stats := svc.Stats(context.Background())
	if stats.CacheHits != 1 {
		t.Errorf("cache hits = %d, want 1", stats.CacheHits)
	}
}

func TestFetchPropsFallsBackWhenAllProvidersFail(t *testing.T) {
	source := &stubSource{name: "down", err: errors.New("connection refused")}
	repo := &stubRepository{rate: 0.6, samples: 5, form: []bool{true, false}}
	svc := newTestService([]provider.PropSource{source}, repo)

	props := svc.FetchProps(context.Background(), models.SportMLB, "2024-06-01")
	if len(props) == 0 {
		t.Fatal("expected fallback props")
	}
	for _, p := range props {
		if p.Source != "fallback" {
			t.Errorf("prop source = %q, want fallback", p.Source)
		}
	}
}

func TestFetchPropsDegradesPerProvider(t *testing.T) {
	down := &stubSource{name: "down", err: errors.New("timeout")}
	up := &stubSource{name: "up", props: propPool(3)}
	repo := &stubRepository{rate: 0.6, samples: 5, form: nil}
	svc := newTestService([]provider.PropSource{down, up}, repo)

	props := svc.FetchProps(context.Background(), models.SportNFL, "")
	if len(props) != 3 {
		t.Fatalf("got %d props, want 3 from the healthy provider", len(props))
	}
	if props[0].Source == "fallback" {
		t.Error("fallback should not be served when a provider succeeded")
	}
}

func TestBuildCustomParlay(t *testing.T) {
	source := &stubSource{name: "test", props: propPool(10)}
	repo := &stubRepository{rate: 0.7, samples: 15, form: []bool{true, true, false}}
	svc := newTestService([]provider.PropSource{source}, repo)

	result, err := svc.BuildCustomParlay(context.Background(), CustomParlayRequest{
		Sport:      models.SportNFL,
		TargetOdds: 600,
		MaxLegs:    4,
	})
	if err != nil {
		t.Fatalf("BuildCustomParlay returned error: %v", err)
	}

	if len(result.Parlay.Legs) < 2 {
		t.Fatalf("got %d legs, want at least 2", len(result.Parlay.Legs))
	}
	if len(result.Parlay.Legs) > 4 {
		t.Errorf("got %d legs, want at most 4", len(result.Parlay.Legs))
	}
	if !strings.Contains(result.Parlay.Description, "Custom") {
		t.Errorf("description = %q", result.Parlay.Description)
	}
	// The quoted probability is the product of the legs' historical hit
	// rates; every stubbed prop hits at 0.7.
	wantProb := math.Pow(0.7, float64(len(result.Parlay.Legs)))
	if diff := math.Abs(result.HitProbability - wantProb); diff > 1e-9 {
		t.Errorf("hit probability = %f, want %f", result.HitProbability, wantProb)
	}
	if !result.Stake.Equal(decimal.NewFromInt(10)) {
		t.Errorf("stake = %s, want 10", result.Stake)
	}
	// Payout must equal stake times the total-odds multiplier.
	wantPayout := decimal.NewFromInt(10).Mul(decimal.NewFromFloat(result.Parlay.ExpectedPayout))
	if diff := result.Payout.Sub(wantPayout).Abs(); diff.GreaterThan(decimal.NewFromFloat(0.01)) {
		t.Errorf("payout = %s, want %s", result.Payout, wantPayout)
	}
}

func TestBuildCustomParlayInvalidTarget(t *testing.T) {
	source := &stubSource{name: "test", props: propPool(10)}
	repo := &stubRepository{rate: 0.7, samples: 15, form: nil}
	svc := newTestService([]provider.PropSource{source}, repo)

	_, err := svc.BuildCustomParlay(context.Background(), CustomParlayRequest{
		Sport:      models.SportNFL,
		TargetOdds: 0,
	})
	if err == nil {
		t.Fatal("expected error for target odds of 0")
	}
}

func TestBuildCustomParlayNoEligibleProps(t *testing.T) {
	source := &stubSource{name: "test", props: propPool(10)}
	repo := &stubRepository{rate: 0.3, samples: 15, form: nil}
	svc := newTestService([]provider.PropSource{source}, repo)

	_, err := svc.BuildCustomParlay(context.Background(), CustomParlayRequest{
		Sport:      models.SportNFL,
		TargetOdds: 600,
		MinHitRate: 0.6,
	})
	if !errors.Is(err, ErrNoCombination) {
		t.Fatalf("expected ErrNoCombination, got %v", err)
	}
}

func TestStatsAfterRefresh(t *testing.T) {
	source := &stubSource{name: "test", props: propPool(12)}
	repo := &stubRepository{rate: 0.8, samples: 20, form: []bool{true, true, true, true, true}}
	svc := newTestService([]provider.PropSource{source}, repo)

	if err := svc.Refresh(context.Background(), models.SportNFL); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	stats := svc.Stats(context.Background())
	if stats.TotalParlaysGenerated == 0 {
		t.Error("total parlays generated is zero after refresh")
	}
	free := stats.CachedByTier[models.TierFree]
	if free.Count == 0 {
		t.Error("no cached free-tier parlays in stats")
	}
	if free.Count > 0 && free.AvgLegs < 5 {
		t.Errorf("average legs = %f, want at least 5", free.AvgLegs)
	}
	if _, ok := stats.LastRefresh[models.SportNFL]; !ok {
		t.Error("last refresh timestamp missing for NFL")
	}
}
