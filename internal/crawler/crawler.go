// Package crawler fetches trending items from the configured sources.
// Ordinary scrape failures return empty lists, never errors that would
// abort a digest run.
package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
	"github.com/dailybrief/daily-brief-bot/internal/platform/observability"
)

const (
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultRequestTimeout = 10 * time.Second
	maxResponseBytes      = 4 << 20
)

// Crawler fetches trending raw items for a single source.
type Crawler interface {
	Source() string
	FetchTrending(ctx context.Context, limit int) ([]domain.RawItem, error)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultRequestTimeout}
}

func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}

	return nil
}

type sourceFetch struct {
	crawler Crawler
	limit   int
}

// Fetcher fans out to all registered crawlers concurrently, each bounded
// by its own timeout. A failed or timed-out source contributes an empty
// list; output preserves registration order.
type Fetcher struct {
	sources []sourceFetch
	timeout time.Duration
	logger  *zerolog.Logger
}

func NewFetcher(timeout time.Duration, logger *zerolog.Logger) *Fetcher {
	return &Fetcher{timeout: timeout, logger: logger}
}

func (f *Fetcher) Add(c Crawler, limit int) {
	f.sources = append(f.sources, sourceFetch{crawler: c, limit: limit})
}

func (f *Fetcher) FetchAll(ctx context.Context) []domain.RawItem {
	results := make([][]domain.RawItem, len(f.sources))
	done := make(chan int, len(f.sources))

	for i, s := range f.sources {
		go func(i int, s sourceFetch) {
			defer func() { done <- i }()

			fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()

			items, err := s.crawler.FetchTrending(fetchCtx, s.limit)
			if err != nil {
				observability.CrawlErrors.WithLabelValues(s.crawler.Source()).Inc()

				f.logger.Error().
					Err(err).
					Str("source", s.crawler.Source()).
					Msg("source fetch failed, contributing nothing")

				return
			}

			observability.ItemsCrawled.WithLabelValues(s.crawler.Source()).Add(float64(len(items)))

			f.logger.Info().
				Str("source", s.crawler.Source()).
				Int("items", len(items)).
				Msg("source fetch complete")

			results[i] = items
		}(i, s)
	}

	for range f.sources {
		<-done
	}

	out := make([]domain.RawItem, 0)
	for _, items := range results {
		out = append(out, items...)
	}

	return out
}
