// Package history provides read-only access to settled prop results used
// for hit-rate and recent-form queries.
package history

import (
	"context"
	"time"

	"github.com/statssync/stats-sync/internal/models"
)

// Repository defines read-only access to historical prop results.
// Implementations must be safe for concurrent use; the data is reference
// data and never mutated after load.
type Repository interface {
	// HitRate returns the fraction of records within the window where the
	// line hit, for one player and prop type, along with the sample size.
	// A sample size of zero means no data, not a 0% hit rate.
	HitRate(ctx context.Context, player string, propType models.PropType, window time.Duration) (float64, int, error)

	// PropTypeHitRate returns the aggregate hit rate across all players
	// for a prop type within the window.
	PropTypeHitRate(ctx context.Context, propType models.PropType, window time.Duration) (float64, int, error)

	// RecentForm returns up to games hit/miss results for a player and
	// prop type, most recent first.
	RecentForm(ctx context.Context, player string, propType models.PropType, games int) ([]bool, error)
}
