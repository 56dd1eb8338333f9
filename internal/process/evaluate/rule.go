package evaluate

import (
	"context"
	"fmt"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
	"github.com/dailybrief/daily-brief-bot/internal/process/categorize"
)

// RuleEvaluator categorizes without trimming: every candidate is retained
// and section scores drive any later cuts. It makes no external calls and
// never fails.
type RuleEvaluator struct{}

func NewRule() *RuleEvaluator {
	return &RuleEvaluator{}
}

func (e *RuleEvaluator) Evaluate(_ context.Context, items []domain.ContentItem) Outcome {
	results := make([]domain.SelectionResult, 0, len(items))

	for _, item := range items {
		section := categorize.Classify(item)

		results = append(results, domain.SelectionResult{
			Source:       item.Source,
			Title:        item.Title,
			URL:          item.URL,
			ValueSummary: truncateSummary(fmt.Sprintf("Trending on %s, categorized as %s", item.Source, section)),
		})
	}

	return Outcome{Results: results, Provenance: domain.ProvenanceRule}
}
