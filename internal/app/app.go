// Package app wires configuration, storage, crawlers, the selection
// pipeline, and the digest scheduler into runnable modes.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/core/llm"
	"github.com/dailybrief/daily-brief-bot/internal/crawler"
	"github.com/dailybrief/daily-brief-bot/internal/output/digest"
	"github.com/dailybrief/daily-brief-bot/internal/output/mailer"
	"github.com/dailybrief/daily-brief-bot/internal/platform/config"
	"github.com/dailybrief/daily-brief-bot/internal/platform/observability"
	"github.com/dailybrief/daily-brief-bot/internal/platform/schedule"
	"github.com/dailybrief/daily-brief-bot/internal/process/categorize"
	"github.com/dailybrief/daily-brief-bot/internal/process/dedup"
	"github.com/dailybrief/daily-brief-bot/internal/process/evaluate"
	"github.com/dailybrief/daily-brief-bot/internal/process/normalize"
	"github.com/dailybrief/daily-brief-bot/internal/process/pipeline"
	db "github.com/dailybrief/daily-brief-bot/internal/storage"
)

// App holds the application dependencies and provides methods to run
// different modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer starts the health check and metrics server. The same
// server exposes the subscriber feedback endpoint.
func (a *App) StartHealthServer(ctx context.Context) error {
	feedback := categorize.NewFeedback(a.database, a.logger)
	handler := categorize.NewFeedbackHandler(feedback, a.logger)

	srv := observability.NewServerWithFeedback(a.database, a.cfg.HealthPort, handler, a.logger)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("health server start: %w", err)
	}

	return nil
}

// RunDigest runs the digest mode: the daily send loop, or a single
// immediate run when once is set.
func (a *App) RunDigest(ctx context.Context, once bool) error {
	a.logger.Info().Bool("once", once).Str("selection_mode", a.cfg.SelectionMode).Msg("Starting digest mode")

	sched, err := schedule.NewDaily(a.cfg.DigestSendTime, a.cfg.DigestTimezone)
	if err != nil {
		return fmt.Errorf("digest schedule: %w", err)
	}

	pipe := pipeline.New(
		normalize.New(a.logger),
		dedup.New(a.cfg.DedupWindow, a.cfg.DedupThreshold),
		a.newEvaluator(),
		a.database,
		a.logger,
	)

	mail := mailer.New(a.cfg.SMTPServer, a.cfg.SMTPPort, a.cfg.SenderEmail, a.cfg.SenderPassword, a.cfg.Subscribers, a.logger)

	s := digest.New(a.newFetcher(), pipe, mail, sched, a.logger)

	if once {
		if err := s.RunOnce(ctx); err != nil {
			return fmt.Errorf("digest run once: %w", err)
		}

		return nil
	}

	if err := s.Run(ctx); err != nil {
		return fmt.Errorf("digest run: %w", err)
	}

	return nil
}

// newEvaluator builds the configured evaluator. Model mode still keeps
// the rule path underneath as its fallback.
func (a *App) newEvaluator() evaluate.Evaluator {
	if a.cfg.SelectionMode == config.SelectionModeModel {
		generator := llm.New(a.cfg, a.logger)

		return evaluate.NewModel(generator, a.database, a.cfg.LookbackDays, a.logger)
	}

	return evaluate.NewRule()
}

func (a *App) newFetcher() *crawler.Fetcher {
	f := crawler.NewFetcher(a.cfg.FetchTimeout, a.logger)

	f.Add(crawler.NewHackerNews(a.logger), a.cfg.HackerNewsLimit)
	f.Add(crawler.NewWeibo(a.logger), a.cfg.WeiboLimit)

	if len(a.cfg.BilibiliUIDs) > 0 {
		f.Add(crawler.NewBilibili(a.cfg.BilibiliUIDs, a.logger), a.cfg.BilibiliLimit)
	}

	if len(a.cfg.RSSFeeds) > 0 {
		f.Add(crawler.NewRSS(a.cfg.RSSFeeds, a.logger), a.cfg.RSSLimit)
	}

	return f
}
