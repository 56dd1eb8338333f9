package db

import (
	"context"
	"fmt"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

// GetSectionScores returns all section scores.
func (db *DB) GetSectionScores(ctx context.Context) ([]domain.SectionScore, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT section, score
		FROM section_scores
		ORDER BY section
	`)
	if err != nil {
		return nil, fmt.Errorf("query section scores: %w", err)
	}
	defer rows.Close()

	scores := make([]domain.SectionScore, 0, len(domain.SectionKeys()))

	for rows.Next() {
		var s domain.SectionScore
		if err := rows.Scan(&s.Section, &s.Score); err != nil {
			return nil, fmt.Errorf("scan section score row: %w", err)
		}

		scores = append(scores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate section score rows: %w", err)
	}

	return scores, nil
}

// AdjustSectionScore moves a section's score by delta, clamped to the
// 1-10 range, and returns the new value. Unknown sections start from the
// default score.
func (db *DB) AdjustSectionScore(ctx context.Context, section string, delta float64) (float64, error) {
	var score float64

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO section_scores (section, score)
		VALUES ($1, LEAST($3, GREATEST($2, $4 + $5)))
		ON CONFLICT (section) DO UPDATE SET
			score = LEAST($3, GREATEST($2, section_scores.score + $5)),
			updated_at = NOW()
		RETURNING score
	`, section, domain.SectionScoreMin, domain.SectionScoreMax, domain.SectionScoreDefault, delta).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("adjust section score: %w", err)
	}

	return score, nil
}
