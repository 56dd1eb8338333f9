package db

import (
	"context"
	"fmt"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

// IncrementPattern bumps the success counter for a (type, value) pair and
// folds the engagement score into the running average.
func (db *DB) IncrementPattern(ctx context.Context, patternType, patternValue string, engagement float64) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO selection_patterns (pattern_type, pattern_value, success_count, avg_engagement)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (pattern_type, pattern_value) DO UPDATE SET
			success_count = selection_patterns.success_count + 1,
			avg_engagement = (selection_patterns.avg_engagement * selection_patterns.success_count + $3)
				/ (selection_patterns.success_count + 1),
			updated_at = NOW()
	`, patternType, patternValue, engagement)
	if err != nil {
		return fmt.Errorf("increment selection pattern: %w", err)
	}

	return nil
}

// TopPatterns returns recurring successful patterns, most successful first.
func (db *DB) TopPatterns(ctx context.Context, limit int) ([]domain.SelectionPattern, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT pattern_type, pattern_value, success_count, avg_engagement
		FROM selection_patterns
		WHERE success_count > 0
		ORDER BY success_count DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top patterns: %w", err)
	}
	defer rows.Close()

	patterns := make([]domain.SelectionPattern, 0, limit)

	for rows.Next() {
		var p domain.SelectionPattern
		if err := rows.Scan(&p.Type, &p.Value, &p.SuccessCount, &p.AvgEngagement); err != nil {
			return nil, fmt.Errorf("scan pattern row: %w", err)
		}

		patterns = append(patterns, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pattern rows: %w", err)
	}

	return patterns, nil
}
