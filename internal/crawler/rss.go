package crawler

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

const rssSourceName = "RSS"

// RSS pulls items from extra configured feeds. Feed items have no
// source-tied section, so they flow through the keyword rules.
type RSS struct {
	parser *gofeed.Parser
	feeds  []string
	logger *zerolog.Logger
}

func NewRSS(feeds []string, logger *zerolog.Logger) *RSS {
	return &RSS{
		parser: gofeed.NewParser(),
		feeds:  feeds,
		logger: logger,
	}
}

func (c *RSS) Source() string {
	return rssSourceName
}

func (c *RSS) FetchTrending(ctx context.Context, limit int) ([]domain.RawItem, error) {
	items := make([]domain.RawItem, 0, limit)

	for _, feedURL := range c.feeds {
		feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			c.logger.Warn().Err(err).Str("feed", feedURL).Msg("skipping unreadable feed")

			continue
		}

		for _, entry := range feed.Items {
			var published string
			if entry.PublishedParsed != nil {
				published = entry.PublishedParsed.UTC().Format(time.RFC3339)
			}

			items = append(items, domain.RawItem{
				Source:      rssSourceName,
				Title:       entry.Title,
				URL:         entry.Link,
				Description: entry.Description,
				PublishedAt: published,
				Extra:       map[string]string{"feed": feed.Title},
			})

			if len(items) >= limit {
				return items, nil
			}
		}
	}

	return items, nil
}
