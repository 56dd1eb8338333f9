package categorize

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

// ScoreStore persists section scores.
type ScoreStore interface {
	GetSectionScores(ctx context.Context) ([]domain.SectionScore, error)
	AdjustSectionScore(ctx context.Context, section string, delta float64) (float64, error)
}

// Feedback is the only external mutation path into section scoring: each
// event moves the mapped section's score by ±0.5, clamped to [1,10] in
// the store.
type Feedback struct {
	store  ScoreStore
	logger *zerolog.Logger
}

func NewFeedback(store ScoreStore, logger *zerolog.Logger) *Feedback {
	return &Feedback{store: store, logger: logger}
}

// Apply records one feedback event for a source and returns the adjusted
// section and its new score.
func (f *Feedback) Apply(ctx context.Context, source string, positive bool) (string, float64, error) {
	section := SectionForSource(source)

	delta := domain.FeedbackStep
	if !positive {
		delta = -domain.FeedbackStep
	}

	score, err := f.store.AdjustSectionScore(ctx, section, delta)
	if err != nil {
		return "", 0, fmt.Errorf("adjust section score: %w", err)
	}

	f.logger.Info().
		Str("source", source).
		Str("section", section).
		Bool("positive", positive).
		Float64("score", score).
		Msg("section feedback applied")

	return section, score, nil
}
