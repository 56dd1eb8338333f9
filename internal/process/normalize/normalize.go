// Package normalize turns raw crawler output into canonical content items.
// Bad entries from one source are dropped with a warning and never abort
// processing of the rest.
package normalize

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

// Normalizer converts RawItem batches into ContentItems.
type Normalizer struct {
	logger *zerolog.Logger
	now    func() time.Time
}

func New(logger *zerolog.Logger) *Normalizer {
	return &Normalizer{logger: logger, now: time.Now}
}

// Items normalizes a flat list of raw items, each carrying its own source
// tag. Entries missing a title or URL are dropped with a warning. Output
// order preserves input order.
func (n *Normalizer) Items(raw []domain.RawItem) []domain.ContentItem {
	out := make([]domain.ContentItem, 0, len(raw))

	for i, r := range raw {
		item, ok := n.one(r)
		if !ok {
			n.logger.Warn().
				Str("source", r.Source).
				Int("index", i).
				Str("url", r.URL).
				Msg("dropping raw item without title or url")

			continue
		}

		out = append(out, item)
	}

	return out
}

// ItemsBySource normalizes a source-name → raw-items mapping. Sources are
// flattened in sorted name order so the output is deterministic; within a
// source, input order is preserved. Entries without a source tag inherit
// the map key.
func (n *Normalizer) ItemsBySource(raw map[string][]domain.RawItem) []domain.ContentItem {
	sources := make([]string, 0, len(raw))
	for source := range raw {
		sources = append(sources, source)
	}

	sort.Strings(sources)

	out := make([]domain.ContentItem, 0)

	for _, source := range sources {
		items := raw[source]
		for i := range items {
			if items[i].Source == "" {
				items[i].Source = source
			}
		}

		out = append(out, n.Items(items)...)
	}

	return out
}

func (n *Normalizer) one(r domain.RawItem) (domain.ContentItem, bool) {
	title := norm.NFC.String(strings.TrimSpace(r.Title))
	url := strings.TrimSpace(r.URL)

	if title == "" || url == "" {
		return domain.ContentItem{}, false
	}

	item := domain.ContentItem{
		Source:     r.Source,
		Title:      title,
		URL:        url,
		Text:       norm.NFC.String(strings.TrimSpace(r.Description)),
		Popularity: parsePopularity(r.Popularity),
		FetchedAt:  n.now().UTC(),
		Extra:      r.Extra,
	}

	if r.PublishedAt != "" {
		if ts, err := dateparse.ParseAny(r.PublishedAt); err == nil {
			item.FetchedAt = ts.UTC()
		} else {
			n.logger.Debug().
				Str("source", r.Source).
				Str("published_at", r.PublishedAt).
				Msg("unparseable publish timestamp, keeping fetch time")
		}
	}

	return item, true
}

// parsePopularity reads loosely formatted counts: "1,234", "1234 points",
// "456万". Unparseable values map to 0.
func parsePopularity(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}

	multiplier := 1.0

	switch {
	case strings.HasSuffix(s, "万"):
		multiplier = 10_000
		s = strings.TrimSuffix(s, "万")
	case strings.HasSuffix(s, "亿"):
		multiplier = 100_000_000
		s = strings.TrimSuffix(s, "亿")
	}

	end := len(s)
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			end = i
			break
		}
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}

	return v * multiplier
}
