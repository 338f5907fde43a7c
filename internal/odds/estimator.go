package odds

import (
	"math"
	"sort"

	"github.com/statssync/stats-sync/internal/models"
)

const (
	defaultEstimatedOdds = 200
	minEstimatedOdds     = -500
	maxEstimatedOdds     = 2000
)

// baseOddsTable maps prop type and line to a market-typical American price
// for the over. Lines not present are snapped to the nearest entry.
var baseOddsTable = map[models.PropType]map[float64]int{
	models.PropHits: {
		0.5: 180,
		1.5: 240,
		2.5: 400,
	},
	models.PropHomeRuns: {
		0.5: 240,
		1.5: 800,
	},
	models.PropRBIs: {
		0.5: 160,
		1.5: 300,
		2.5: 500,
	},
	models.PropStrikeouts: {
		0.5: 140, // batter
		5.5: 180, // pitcher
		7.5: 300, // pitcher
	},
	models.PropPassingYards: {
		249.5: 110,
		299.5: 160,
		349.5: 250,
	},
	models.PropRushingYards: {
		49.5: 120,
		79.5: 200,
		99.5: 300,
	},
	models.PropReceivingYards: {
		49.5: 110,
		69.5: 160,
		89.5: 250,
	},
	models.PropReceptions: {
		3.5: 120,
		5.5: 180,
		7.5: 300,
	},
}

// EstimateProp estimates American odds for a prop from its type, line, and
// historical hit rate. The base table price is snapped to the nearest
// tabulated line (+50/point above, -30/point below), then adjusted for hit
// rate: rates above 0.8 shorten the price, rates below 0.6 lengthen it.
// The result is clamped to [-500, +2000]; unknown prop types get +200.
func EstimateProp(propType models.PropType, line, hitRate float64) int {
	estimated := defaultEstimatedOdds

	if lines, ok := baseOddsTable[propType]; ok {
		tabulated := make([]float64, 0, len(lines))
		for l := range lines {
			tabulated = append(tabulated, l)
		}
		sort.Float64s(tabulated)

		// Nearest tabulated line; ties go to the lower line.
		closest := tabulated[0]
		for _, l := range tabulated[1:] {
			if math.Abs(l-line) < math.Abs(closest-line) {
				closest = l
			}
		}
		estimated = lines[closest]

		diff := line - closest
		if diff > 0 {
			estimated += int(diff * 50)
		} else if diff < 0 {
			estimated -= int(-diff * 30)
		}
	}

	if hitRate > 0.8 {
		estimated -= int((hitRate - 0.8) * 500)
	} else if hitRate < 0.6 {
		estimated += int((0.6 - hitRate) * 800)
	}

	if estimated < minEstimatedOdds {
		estimated = minEstimatedOdds
	}
	if estimated > maxEstimatedOdds {
		estimated = maxEstimatedOdds
	}

	return estimated
}
