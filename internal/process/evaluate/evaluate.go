// Package evaluate turns a deduplicated candidate set into a selection.
// Two variants share one contract: the rule evaluator categorizes and
// retains everything; the model evaluator asks an LLM for a 3-5 item
// selection and falls back to the rule output on any failure.
package evaluate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

// Outcome is a selection tagged with its evaluation provenance.
type Outcome struct {
	Results    []domain.SelectionResult
	Provenance string
}

// Evaluator is the single-call selection contract. It never returns an
// error: evaluation failures surface as rule-backed outcomes.
type Evaluator interface {
	Evaluate(ctx context.Context, items []domain.ContentItem) Outcome
}

const maxSummaryRunes = 100

// Validate drops results whose (source, title, url) triple matches no
// input item. Kept results get their value summary bounded.
func Validate(results []domain.SelectionResult, items []domain.ContentItem, logger *zerolog.Logger) []domain.SelectionResult {
	valid := make([]domain.SelectionResult, 0, len(results))

	for _, r := range results {
		if !matchesInput(r, items) {
			logger.Warn().
				Str("source", r.Source).
				Str("title", r.Title).
				Str("url", r.URL).
				Msg("dropping selection entry that matches no input item")

			continue
		}

		r.ValueSummary = truncateSummary(r.ValueSummary)
		valid = append(valid, r)
	}

	return valid
}

func matchesInput(r domain.SelectionResult, items []domain.ContentItem) bool {
	for _, item := range items {
		if item.SameIdentity(r.Source, r.Title, r.URL) {
			return true
		}
	}

	return false
}

func truncateSummary(s string) string {
	runes := []rune(s)
	if len(runes) <= maxSummaryRunes {
		return s
	}

	return string(runes[:maxSummaryRunes])
}
