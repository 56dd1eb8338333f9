package db

import (
	"context"
	"fmt"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

// UpsertCorrelation links two selected URLs; a repeated pair keeps the
// strongest observed strength.
func (db *DB) UpsertCorrelation(ctx context.Context, c domain.Correlation) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO content_correlations (source_url, target_url, correlation_type, correlation_strength)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source_url, target_url) DO UPDATE SET
			correlation_type = EXCLUDED.correlation_type,
			correlation_strength = GREATEST(content_correlations.correlation_strength, EXCLUDED.correlation_strength)
	`, c.SourceURL, c.TargetURL, c.Type, c.Strength)
	if err != nil {
		return fmt.Errorf("upsert content correlation: %w", err)
	}

	return nil
}

// TopCorrelations returns the strongest correlations above the floor.
func (db *DB) TopCorrelations(ctx context.Context, minStrength float64, limit int) ([]domain.Correlation, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT source_url, target_url, correlation_type, correlation_strength
		FROM content_correlations
		WHERE correlation_strength > $1
		ORDER BY correlation_strength DESC
		LIMIT $2
	`, minStrength, limit)
	if err != nil {
		return nil, fmt.Errorf("query top correlations: %w", err)
	}
	defer rows.Close()

	correlations := make([]domain.Correlation, 0, limit)

	for rows.Next() {
		var c domain.Correlation
		if err := rows.Scan(&c.SourceURL, &c.TargetURL, &c.Type, &c.Strength); err != nil {
			return nil, fmt.Errorf("scan correlation row: %w", err)
		}

		correlations = append(correlations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate correlation rows: %w", err)
	}

	return correlations, nil
}
