package parlay

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/models"
	"github.com/statssync/stats-sync/internal/odds"
)

const (
	// minLegsPerParlay is the floor on legs for a generated parlay; tiers
	// with fewer eligible props produce nothing.
	minLegsPerParlay = 5

	// maxAttempts bounds the randomized acceptance sampling per parlay.
	// Exhaustion means "no eligible parlay", not an error.
	maxAttempts = 50

	// payoutTolerance accepts payouts at 80% of the tier target.
	payoutTolerance = 0.8

	// maxTeamLegs caps legs from a single team.
	maxTeamLegs = 2

	// duplicateOverlapThreshold suppresses a parlay whose player set
	// overlaps an already-emitted one by more than 60%.
	duplicateOverlapThreshold = 0.6
)

// Builder selects scored props into parlays that satisfy per-tier
// confidence and payout thresholds. Safe for concurrent use.
type Builder struct {
	mu     sync.Mutex // guards rng; rand.Rand is not goroutine-safe
	rng    *rand.Rand
	logger *logrus.Logger
}

// NewBuilder creates a builder seeded from the current time.
func NewBuilder(logger *logrus.Logger) *Builder {
	return &Builder{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}
}

// newSeededBuilder pins the random source for deterministic tests.
func newSeededBuilder(seed int64, logger *logrus.Logger) *Builder {
	return &Builder{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

func (b *Builder) intn(n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Intn(n)
}

func (b *Builder) shuffle(n int, swap func(i, j int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rng.Shuffle(n, swap)
}

// BuildParlays generates parlays for the given tiers (all tiers when tiers
// is empty). Tiers without enough eligible props are skipped.
func (b *Builder) BuildParlays(props []models.PlayerProp, sport models.SportType, tiers ...models.TierType) []models.Parlay {
	if len(tiers) == 0 {
		tiers = models.AllTiers()
	}

	var all []models.Parlay
	for _, tier := range tiers {
		all = append(all, b.BuildForTier(props, sport, tier)...)
	}
	return all
}

// BuildForTier generates up to a handful of parlays for one tier. A nil
// result means no eligible parlay could be assembled; callers must treat
// that as a normal outcome, not a failure.
func (b *Builder) BuildForTier(props []models.PlayerProp, sport models.SportType, tier models.TierType) []models.Parlay {
	req, err := models.RequirementsFor(tier)
	if err != nil {
		b.logger.WithError(err).Warn("Skipping unknown tier")
		return nil
	}

	eligible := make([]models.PlayerProp, 0, len(props))
	for _, p := range props {
		if p.ConfidenceScore >= req.MinConfidence {
			eligible = append(eligible, p)
		}
	}

	if len(eligible) < minLegsPerParlay {
		b.logger.WithFields(logrus.Fields{
			"tier":     tier,
			"eligible": len(eligible),
		}).Warn("Not enough eligible props for tier")
		return nil
	}

	maxParlays := 5
	if tier == models.TierGOAT {
		maxParlays = 3
	}

	var parlays []models.Parlay
	for i := 0; i < maxParlays; i++ {
		p := b.generateSingle(eligible, sport, tier, req)
		if p == nil {
			continue
		}
		if isNearDuplicate(p, parlays) {
			continue
		}
		parlays = append(parlays, *p)
	}
	return parlays
}

// generateSingle runs bounded acceptance sampling: random leg counts and
// selections are drawn until one meets the tier thresholds or the attempt
// budget runs out.
func (b *Builder) generateSingle(eligible []models.PlayerProp, sport models.SportType, tier models.TierType, req models.TierRequirements) *models.Parlay {
	maxLegs := req.MaxLegs
	if maxLegs > len(eligible) {
		maxLegs = len(eligible)
	}
	if maxLegs < minLegsPerParlay {
		return nil
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		numLegs := minLegsPerParlay + b.intn(maxLegs-minLegsPerParlay+1)

		selected := b.selectProps(eligible, numLegs, req)
		if len(selected) < minLegsPerParlay {
			continue
		}

		legs := make([]models.ParlayLeg, 0, len(selected))
		legOdds := make([]int, 0, len(selected))
		totalConfidence := 0.0
		for _, prop := range selected {
			leg := makeLeg(prop, tier)
			legs = append(legs, leg)
			legOdds = append(legOdds, leg.Odds)
			totalConfidence += leg.Confidence
		}

		totalOdds, err := odds.ParlayOdds(legOdds)
		if err != nil {
			continue // a leg carried an unusable price
		}
		payout, err := odds.PayoutMultiplier(totalOdds)
		if err != nil {
			continue
		}
		overallConfidence := totalConfidence / float64(len(legs))

		if overallConfidence < req.MinConfidence || payout < req.TargetPayout*payoutTolerance {
			continue
		}

		return &models.Parlay{
			ID:                uuid.New(),
			Tier:              tier,
			Sport:             sport,
			Legs:              legs,
			TotalOdds:         totalOdds,
			ExpectedPayout:    payout,
			OverallConfidence: overallConfidence,
			CreatedAt:         time.Now().UTC(),
			GameDate:          time.Now().UTC().Format("2006-01-02"),
			Description:       describe(tier, len(legs)),
		}
	}

	b.logger.WithFields(logrus.Fields{
		"tier":     tier,
		"attempts": maxAttempts,
	}).Debug("No parlay met tier thresholds")
	return nil
}

// selectProps picks up to numLegs props honoring the no-duplicate-player
// and max-two-per-team constraints. Higher-confidence props are preferred;
// non-conservative tiers shuffle the top half for variety.
func (b *Builder) selectProps(props []models.PlayerProp, numLegs int, req models.TierRequirements) []models.PlayerProp {
	sorted := make([]models.PlayerProp, len(props))
	copy(sorted, props)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ConfidenceScore > sorted[j].ConfidenceScore
	})

	if !req.ConservativeBias {
		topHalf := len(sorted) / 2
		b.shuffle(topHalf, func(i, j int) {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		})
	}

	selected := make([]models.PlayerProp, 0, numLegs)
	usedPlayers := make(map[string]struct{})
	teamCounts := make(map[string]int)

	for _, prop := range sorted {
		if len(selected) >= numLegs {
			break
		}
		if _, ok := usedPlayers[prop.PlayerName]; ok {
			continue
		}
		if teamCounts[prop.Team] >= maxTeamLegs {
			continue
		}
		selected = append(selected, prop)
		usedPlayers[prop.PlayerName] = struct{}{}
		teamCounts[prop.Team]++
	}
	return selected
}

// makeLeg picks the over/under side for a prop. GOAT parlays only take the
// over on near-lock confidence; other tiers side with the hit rate.
func makeLeg(prop models.PlayerProp, tier models.TierType) models.ParlayLeg {
	var selection models.Selection
	if tier == models.TierGOAT {
		if prop.ConfidenceScore > 97.5 {
			selection = models.SelectionOver
		} else {
			selection = models.SelectionUnder
		}
	} else {
		if prop.HitRate > 0.55 {
			selection = models.SelectionOver
		} else {
			selection = models.SelectionUnder
		}
	}

	legOdds := prop.OverOdds
	if selection == models.SelectionUnder {
		legOdds = prop.UnderOdds
	}

	return models.ParlayLeg{
		Prop:       prop,
		Selection:  selection,
		Odds:       legOdds,
		Confidence: prop.ConfidenceScore,
	}
}

func isNearDuplicate(p *models.Parlay, existing []models.Parlay) bool {
	for i := range existing {
		if p.PlayerOverlap(&existing[i]) > duplicateOverlapThreshold {
			return true
		}
	}
	return false
}

func describe(tier models.TierType, legs int) string {
	switch tier {
	case models.TierGOAT:
		return fmt.Sprintf("GOAT Tier: %d-Leg Lock Parlay", legs)
	case models.TierPremium:
		return fmt.Sprintf("Premium: High-Confidence %d-Legger", legs)
	default:
		return fmt.Sprintf("Free Play: Solid %d-Leg Value Bet", legs)
	}
}
