package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

// RecordAudit writes one audit row per accepted selection for a run.
func (db *DB) RecordAudit(ctx context.Context, runID uuid.UUID, provenance string, results []domain.SelectionResult) error {
	for _, r := range results {
		_, err := db.Pool.Exec(ctx, `
			INSERT INTO selection_audit (run_id, source, title, url, value_summary, provenance)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, runID, r.Source, r.Title, r.URL, r.ValueSummary, provenance)
		if err != nil {
			return fmt.Errorf("record selection audit: %w", err)
		}
	}

	return nil
}
