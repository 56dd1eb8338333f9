// Package pipeline orchestrates one selection run: normalize, dedup,
// evaluate, validate, persist. Runs are sequential; the scheduler invokes
// at most one at a time.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
	"github.com/dailybrief/daily-brief-bot/internal/platform/observability"
	"github.com/dailybrief/daily-brief-bot/internal/process/dedup"
	"github.com/dailybrief/daily-brief-bot/internal/process/evaluate"
	"github.com/dailybrief/daily-brief-bot/internal/process/normalize"
	db "github.com/dailybrief/daily-brief-bot/internal/storage"
)

// Pipeline status labels for metrics.
const (
	statusSurvived = "survived"
	statusRejected = "rejected"
	statusSelected = "selected"
)

const patternTypeSource = "source"

// Store is the persistence surface the pipeline needs. A persistence
// failure is the only hard failure of a run.
type Store interface {
	UpsertContent(ctx context.Context, item domain.ContentItem, scores db.Scores) error
	IncrementPattern(ctx context.Context, patternType, patternValue string, engagement float64) error
	RecordAudit(ctx context.Context, runID uuid.UUID, provenance string, results []domain.SelectionResult) error
}

// Outcome reports one completed run. Selected carries the input items
// behind Results in the same order, so downstream rendering keeps the
// extra per-source fields the selection summary drops.
type Outcome struct {
	RunID      uuid.UUID
	Results    []domain.SelectionResult
	Selected   []domain.ContentItem
	Rejections []dedup.Rejection
	Provenance string
}

type Pipeline struct {
	normalizer *normalize.Normalizer
	cache      *dedup.Cache
	evaluator  evaluate.Evaluator
	store      Store
	logger     *zerolog.Logger
}

func New(normalizer *normalize.Normalizer, cache *dedup.Cache, evaluator evaluate.Evaluator, store Store, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		normalizer: normalizer,
		cache:      cache,
		evaluator:  evaluator,
		store:      store,
		logger:     logger,
	}
}

// Select runs the full pipeline over raw crawler output. An empty result
// is a valid terminal state meaning nothing to send.
func (p *Pipeline) Select(ctx context.Context, raw []domain.RawItem) (Outcome, error) {
	outcome := Outcome{
		RunID:      uuid.New(),
		Results:    []domain.SelectionResult{},
		Rejections: []dedup.Rejection{},
		Provenance: domain.ProvenanceRule,
	}

	items := p.normalizer.Items(raw)
	survivors := make([]domain.ContentItem, 0, len(items))

	for _, item := range items {
		sim, ok := p.cache.Check(item)

		if ok && sim > p.cache.Threshold() {
			outcome.Rejections = append(outcome.Rejections, dedup.Rejection{Item: item, Similarity: sim})

			observability.PipelineProcessed.WithLabelValues(statusRejected).Inc()
			observability.DropsTotal.WithLabelValues(dedup.ErrTooSimilar.Error()).Inc()

			p.logger.Info().
				Str("source", item.Source).
				Str("title", item.Title).
				Float64("similarity", sim).
				Msg("rejecting near-duplicate item")

			continue
		}

		// Only items that pass the similarity check enter the window.
		// Remembering rejected duplicates would let them transitively
		// reject content that is not similar to anything accepted, and
		// churn legitimate entries out of the bounded window.
		p.cache.Remember(item)

		observability.PipelineProcessed.WithLabelValues(statusSurvived).Inc()

		survivors = append(survivors, item)
	}

	if len(survivors) == 0 {
		p.logger.Warn().
			Int("raw", len(raw)).
			Int("rejected", len(outcome.Rejections)).
			Msg("no candidates survived dedup, skipping evaluation")

		return outcome, nil
	}

	evalOutcome := p.evaluator.Evaluate(ctx, survivors)
	outcome.Provenance = evalOutcome.Provenance
	outcome.Results = evaluate.Validate(evalOutcome.Results, survivors, p.logger)

	observability.SelectionRuns.WithLabelValues(outcome.Provenance).Inc()

	if len(outcome.Results) == 0 {
		p.logger.Warn().
			Int("candidates", len(survivors)).
			Str("provenance", outcome.Provenance).
			Msg("evaluation selected nothing")

		return outcome, nil
	}

	for _, r := range outcome.Results {
		if item, found := findItem(survivors, r); found {
			outcome.Selected = append(outcome.Selected, item)
		}
	}

	if err := p.persist(ctx, outcome, survivors); err != nil {
		return Outcome{}, err
	}

	p.logger.Info().
		Str("run_id", outcome.RunID.String()).
		Int("selected", len(outcome.Results)).
		Int("rejected", len(outcome.Rejections)).
		Str("provenance", outcome.Provenance).
		Msg("selection run complete")

	return outcome, nil
}

func (p *Pipeline) persist(ctx context.Context, outcome Outcome, survivors []domain.ContentItem) error {
	for _, r := range outcome.Results {
		item, found := findItem(survivors, r)
		if !found {
			// Validate guarantees a match; this guards interface misuse.
			continue
		}

		if err := p.store.UpsertContent(ctx, item, db.DefaultScores()); err != nil {
			return fmt.Errorf("persist selection %q: %w", r.URL, err)
		}

		if err := p.store.IncrementPattern(ctx, patternTypeSource, r.Source, db.DefaultEngagementScore); err != nil {
			return fmt.Errorf("increment source pattern %q: %w", r.Source, err)
		}

		observability.PipelineProcessed.WithLabelValues(statusSelected).Inc()
	}

	if err := p.store.RecordAudit(ctx, outcome.RunID, outcome.Provenance, outcome.Results); err != nil {
		return fmt.Errorf("record selection audit: %w", err)
	}

	return nil
}

func findItem(items []domain.ContentItem, r domain.SelectionResult) (domain.ContentItem, bool) {
	for _, item := range items {
		if item.SameIdentity(r.Source, r.Title, r.URL) {
			return item, true
		}
	}

	return domain.ContentItem{}, false
}
