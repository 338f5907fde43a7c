package history

import (
	"context"
	"fmt"
	"time"

	"github.com/statssync/stats-sync/internal/database"
	"github.com/statssync/stats-sync/internal/models"
)

// PostgresRepository implements Repository over a prop_results table for
// deployments where history lives in Postgres instead of a flat file.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new Postgres-backed history repository
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// HitRate implements Repository.
func (r *PostgresRepository) HitRate(ctx context.Context, player string, propType models.PropType, window time.Duration) (float64, int, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE hit), COUNT(*)
		FROM prop_results
		WHERE player_name = $1 AND prop_type = $2 AND date >= $3
	`

	var hits, total int
	cutoff := time.Now().Add(-window)
	if err := r.db.GetPool().QueryRow(ctx, query, player, string(propType), cutoff).Scan(&hits, &total); err != nil {
		return 0, 0, fmt.Errorf("failed to query player hit rate: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(hits) / float64(total), total, nil
}

// PropTypeHitRate implements Repository.
func (r *PostgresRepository) PropTypeHitRate(ctx context.Context, propType models.PropType, window time.Duration) (float64, int, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE hit), COUNT(*)
		FROM prop_results
		WHERE prop_type = $1 AND date >= $2
	`

	var hits, total int
	cutoff := time.Now().Add(-window)
	if err := r.db.GetPool().QueryRow(ctx, query, string(propType), cutoff).Scan(&hits, &total); err != nil {
		return 0, 0, fmt.Errorf("failed to query prop type hit rate: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(hits) / float64(total), total, nil
}

// RecentForm implements Repository.
func (r *PostgresRepository) RecentForm(ctx context.Context, player string, propType models.PropType, games int) ([]bool, error) {
	query := `
		SELECT hit
		FROM prop_results
		WHERE player_name = $1 AND prop_type = $2
		ORDER BY date DESC
		LIMIT $3
	`

	rows, err := r.db.GetPool().Query(ctx, query, player, string(propType), games)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent form: %w", err)
	}
	defer rows.Close()

	var form []bool
	for rows.Next() {
		var hit bool
		if err := rows.Scan(&hit); err != nil {
			return nil, fmt.Errorf("failed to scan recent form row: %w", err)
		}
		form = append(form, hit)
	}
	return form, rows.Err()
}
