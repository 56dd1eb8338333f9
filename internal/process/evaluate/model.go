package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
	"github.com/dailybrief/daily-brief-bot/internal/core/llm"
)

// History limits mirror what the selection prompt can usefully carry.
const (
	historyHighlightsLimit  = 20
	historyPatternsLimit    = 15
	historyCorrelationLimit = 10
	historyCorrelationFloor = 0.7
	defaultHistoryLookback  = 30
)

// HistoryStore supplies optional selection context. Errors degrade to an
// empty context, never to a failed evaluation.
type HistoryStore interface {
	RecentHighlights(ctx context.Context, lookbackDays, limit int) ([]domain.HistoryRecord, error)
	TopPatterns(ctx context.Context, limit int) ([]domain.SelectionPattern, error)
	TopCorrelations(ctx context.Context, minStrength float64, limit int) ([]domain.Correlation, error)
}

// ModelEvaluator builds one selection prompt per run and parses the model's
// JSON array response. Any generate or parse failure falls back to the rule
// evaluator transparently; the caller only ever sees an Outcome.
type ModelEvaluator struct {
	generator    llm.Client
	history      HistoryStore
	rule         *RuleEvaluator
	lookbackDays int
	logger       *zerolog.Logger
}

func NewModel(generator llm.Client, history HistoryStore, lookbackDays int, logger *zerolog.Logger) *ModelEvaluator {
	if lookbackDays <= 0 {
		lookbackDays = defaultHistoryLookback
	}

	return &ModelEvaluator{
		generator:    generator,
		history:      history,
		rule:         NewRule(),
		lookbackDays: lookbackDays,
		logger:       logger,
	}
}

func (e *ModelEvaluator) Evaluate(ctx context.Context, items []domain.ContentItem) Outcome {
	if len(items) == 0 {
		return Outcome{Results: []domain.SelectionResult{}, Provenance: domain.ProvenanceModel}
	}

	prompt, err := e.buildPrompt(ctx, items)
	if err != nil {
		e.logger.Warn().Err(err).Msg("selection prompt build failed, falling back to rule evaluation")

		return e.rule.Evaluate(ctx, items)
	}

	raw, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		e.logger.Warn().Err(err).Msg("model evaluation failed, falling back to rule evaluation")

		return e.rule.Evaluate(ctx, items)
	}

	results, err := parseSelection(raw)
	if err != nil {
		e.logger.Warn().Err(err).Str("response", raw).Msg("unparseable model response, falling back to rule evaluation")

		return e.rule.Evaluate(ctx, items)
	}

	valid := Validate(results, items, e.logger)

	e.logger.Info().
		Int("returned", len(results)).
		Int("valid", len(valid)).
		Int("candidates", len(items)).
		Msg("model selection validated")

	return Outcome{Results: valid, Provenance: domain.ProvenanceModel}
}

func (e *ModelEvaluator) buildPrompt(ctx context.Context, items []domain.ContentItem) (string, error) {
	itemsJSON, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate items: %w", err)
	}

	counts := make(map[string]int, 3)
	for _, item := range items {
		counts[item.Source]++
	}

	countsJSON, err := json.Marshal(counts)
	if err != nil {
		return "", fmt.Errorf("marshal source counts: %w", err)
	}

	historyJSON, err := json.Marshal(e.historicalContext(ctx))
	if err != nil {
		return "", fmt.Errorf("marshal historical context: %w", err)
	}

	return applyPromptTokens(strconv.Itoa(len(items)), string(countsJSON), string(itemsJSON), string(historyJSON)), nil
}

type historicalContext struct {
	SuccessfulPatterns   []domain.SelectionPattern `json:"successful_patterns"`
	HistoricalHighlights []domain.HistoryRecord    `json:"historical_highlights"`
	ContentCorrelations  []domain.Correlation      `json:"content_correlations"`
	Timespan             string                    `json:"timespan"`
}

func (e *ModelEvaluator) historicalContext(ctx context.Context) historicalContext {
	out := historicalContext{
		SuccessfulPatterns:   []domain.SelectionPattern{},
		HistoricalHighlights: []domain.HistoryRecord{},
		ContentCorrelations:  []domain.Correlation{},
		Timespan:             fmt.Sprintf("Past %d days", e.lookbackDays),
	}

	if e.history == nil {
		return out
	}

	if patterns, err := e.history.TopPatterns(ctx, historyPatternsLimit); err != nil {
		e.logger.Warn().Err(err).Msg("failed to load selection patterns for prompt")
	} else {
		out.SuccessfulPatterns = patterns
	}

	if highlights, err := e.history.RecentHighlights(ctx, e.lookbackDays, historyHighlightsLimit); err != nil {
		e.logger.Warn().Err(err).Msg("failed to load historical highlights for prompt")
	} else {
		out.HistoricalHighlights = highlights
	}

	if correlations, err := e.history.TopCorrelations(ctx, historyCorrelationFloor, historyCorrelationLimit); err != nil {
		e.logger.Warn().Err(err).Msg("failed to load content correlations for prompt")
	} else {
		out.ContentCorrelations = correlations
	}

	return out
}

// parseSelection expects a JSON array, scanning line by line first so that
// responses wrapped in prose or fencing still parse. A failure here is a
// total evaluation failure, never a partial result.
func parseSelection(raw string) ([]domain.SelectionResult, error) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			continue
		}

		var results []domain.SelectionResult
		if err := json.Unmarshal([]byte(line), &results); err == nil {
			return results, nil
		}
	}

	extracted := llm.ExtractJSON(raw)

	var results []domain.SelectionResult
	if err := json.Unmarshal([]byte(extracted), &results); err != nil {
		return nil, fmt.Errorf("parse selection response: %w", err)
	}

	return results, nil
}
