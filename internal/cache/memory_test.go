package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/statssync/stats-sync/internal/models"
)

func sampleParlays(n int) []models.Parlay {
	parlays := make([]models.Parlay, n)
	for i := range parlays {
		parlays[i] = models.Parlay{
			ID:    uuid.New(),
			Tier:  models.TierFree,
			Sport: models.SportNFL,
		}
	}
	return parlays
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	want := sampleParlays(3)
	if err := c.Set(ctx, models.SportNFL, models.TierFree, want); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := c.Get(ctx, models.SportNFL, models.TierFree)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got) != len(want) || got[0].ID != want[0].ID {
		t.Errorf("cached parlays do not match: got %d, want %d", len(got), len(want))
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	_, err := c.Get(context.Background(), models.SportMLB, models.TierGOAT)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCacheKeysAreIndependent(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	nfl := sampleParlays(2)
	mlb := sampleParlays(4)
	c.Set(ctx, models.SportNFL, models.TierFree, nfl)
	c.Set(ctx, models.SportMLB, models.TierFree, mlb)

	got, err := c.Get(ctx, models.SportNFL, models.TierFree)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("NFL entry has %d parlays, want 2", len(got))
	}

	if _, err := c.Get(ctx, models.SportNFL, models.TierGOAT); !errors.Is(err, ErrNotFound) {
		t.Errorf("tier keys should be independent, got %v", err)
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	c.Set(ctx, models.SportNFL, models.TierPremium, sampleParlays(5))
	replacement := sampleParlays(1)
	c.Set(ctx, models.SportNFL, models.TierPremium, replacement)

	got, err := c.Get(ctx, models.SportNFL, models.TierPremium)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != replacement[0].ID {
		t.Errorf("expected replacement entry, got %d parlays", len(got))
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, models.SportNFL, models.TierFree, sampleParlays(1))
	time.Sleep(30 * time.Millisecond)

	if _, err := c.Get(ctx, models.SportNFL, models.TierFree); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired entry, got %v", err)
	}
}
