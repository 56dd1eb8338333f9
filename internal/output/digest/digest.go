// Package digest builds and sends the daily brief: fetch, select,
// group into sections, render, mail.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
	"github.com/dailybrief/daily-brief-bot/internal/output/mailer"
	"github.com/dailybrief/daily-brief-bot/internal/platform/observability"
	"github.com/dailybrief/daily-brief-bot/internal/platform/schedule"
	"github.com/dailybrief/daily-brief-bot/internal/platform/worker"
	"github.com/dailybrief/daily-brief-bot/internal/process/pipeline"
)

const runTimeout = 10 * time.Minute

// Fetcher collects raw items from all configured sources.
type Fetcher interface {
	FetchAll(ctx context.Context) []domain.RawItem
}

// Selector runs one selection pass over raw crawler output.
type Selector interface {
	Select(ctx context.Context, raw []domain.RawItem) (pipeline.Outcome, error)
}

// Mailer delivers a rendered digest to the configured subscribers.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) []mailer.Result
}

type Scheduler struct {
	fetcher  Fetcher
	selector Selector
	mail     Mailer
	sched    *schedule.Daily
	logger   *zerolog.Logger

	now func() time.Time
}

func New(fetcher Fetcher, selector Selector, mail Mailer, sched *schedule.Daily, logger *zerolog.Logger) *Scheduler {
	return &Scheduler{
		fetcher:  fetcher,
		selector: selector,
		mail:     mail,
		sched:    sched,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes the daily send loop until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := s.sched.Next(s.now())

		s.logger.Info().Time("next_send", next).Msg("waiting for next digest window")

		if err := worker.WaitUntil(ctx, next); err != nil {
			return err
		}

		err := worker.RunWithTimeout(ctx, runTimeout, s.RunOnce)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("digest loop stopped: %w", ctx.Err())
			}

			s.logger.Error().Err(err).Msg("digest run failed")
		}
	}
}

// RunOnce builds and sends a single digest. An empty selection is a valid
// outcome: it is logged and nothing is sent.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	defer worker.RecoverPanic(s.logger, "digest run")

	raw := s.fetcher.FetchAll(ctx)

	outcome, err := s.selector.Select(ctx, raw)
	if err != nil {
		return fmt.Errorf("selection run: %w", err)
	}

	observability.DigestItems.Set(float64(len(outcome.Results)))

	if len(outcome.Results) == 0 {
		s.logger.Warn().
			Int("raw", len(raw)).
			Int("rejected", len(outcome.Rejections)).
			Msg("nothing selected, skipping digest send")

		return nil
	}

	date := s.now().In(s.sched.Location())
	content := BuildContent(date, outcome.Results, outcome.Selected)

	htmlBody, err := RenderHTML(content)
	if err != nil {
		return err
	}

	msg := mailer.Message{
		Subject: Subject(date),
		Text:    RenderText(content),
		HTML:    htmlBody,
	}

	results := s.mail.Send(ctx, msg)

	var failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	s.logger.Info().
		Str("run_id", outcome.RunID.String()).
		Str("provenance", outcome.Provenance).
		Int("items", len(outcome.Results)).
		Int("recipients", len(results)).
		Int("failed", failed).
		Msg("digest run complete")

	if failed == len(results) && len(results) > 0 {
		return fmt.Errorf("digest delivery failed for all %d recipients", failed)
	}

	return nil
}
