package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

// Scores carries the three opaque history scores stored per selection.
type Scores struct {
	Engagement  float64
	Persistence float64
	Correlation float64
}

// DefaultScores returns the scores recorded for a fresh selection.
func DefaultScores() Scores {
	return Scores{
		Engagement:  DefaultEngagementScore,
		Persistence: DefaultPersistenceScore,
		Correlation: DefaultCorrelationScore,
	}
}

// ContentHash identifies an item by title, url and body text.
func ContentHash(title, url, text string) string {
	sum := sha256.Sum256([]byte(title + url + text))

	return hex.EncodeToString(sum[:])
}

// UpsertContent stores a selected item. Re-insertion by content hash or by
// URL bumps selection_count and refreshes last_referenced instead of
// duplicating the row.
func (db *DB) UpsertContent(ctx context.Context, item domain.ContentItem, scores Scores) error {
	hash := ContentHash(item.Title, item.URL, item.Text)

	tag, err := db.Pool.Exec(ctx, `
		UPDATE content_history SET
			original_source = $1,
			original_title = $2,
			original_url = $3,
			content_text = $4,
			content_hash = $5,
			engagement_score = $6,
			persistence_score = $7,
			correlation_score = $8,
			selection_count = selection_count + 1,
			last_referenced = NOW()
		WHERE content_hash = $5 OR original_url = $3
	`, item.Source, item.Title, item.URL, item.Text, hash,
		scores.Engagement, scores.Persistence, scores.Correlation)
	if err != nil {
		return fmt.Errorf("update content history: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO content_history
			(original_source, original_title, original_url, content_text, content_hash,
			 engagement_score, persistence_score, correlation_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, item.Source, item.Title, item.URL, item.Text, hash,
		scores.Engagement, scores.Persistence, scores.Correlation)
	if err != nil {
		return fmt.Errorf("insert content history: %w", err)
	}

	return nil
}

// RecentHighlights returns the highest-value records from the lookback
// window, ranked by the sum of the three scores.
func (db *DB) RecentHighlights(ctx context.Context, lookbackDays, limit int) ([]domain.HistoryRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT original_source, original_title, original_url, content_hash,
			engagement_score, persistence_score, correlation_score,
			selection_count, last_referenced
		FROM content_history
		WHERE created_at > NOW() - make_interval(days => $1)
		ORDER BY (engagement_score + persistence_score + correlation_score) DESC
		LIMIT $2
	`, lookbackDays, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent highlights: %w", err)
	}
	defer rows.Close()

	records := make([]domain.HistoryRecord, 0, limit)

	for rows.Next() {
		var r domain.HistoryRecord
		if err := rows.Scan(&r.Source, &r.Title, &r.URL, &r.ContentHash,
			&r.EngagementScore, &r.PersistenceScore, &r.CorrelationScore,
			&r.SelectionCount, &r.LastReferenced); err != nil {
			return nil, fmt.Errorf("scan highlight row: %w", err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate highlight rows: %w", err)
	}

	return records, nil
}
