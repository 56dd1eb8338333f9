package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

const (
	hackerNewsBaseURL = "https://news.ycombinator.com/"
	hackerNewsAPIURL  = "https://hacker-news.firebaseio.com/v0"
)

// HackerNews scrapes the front page and falls back to the official
// Firebase API when the scrape yields nothing.
type HackerNews struct {
	client  *http.Client
	baseURL string
	apiURL  string
	logger  *zerolog.Logger
}

func NewHackerNews(logger *zerolog.Logger) *HackerNews {
	return &HackerNews{
		client:  newHTTPClient(),
		baseURL: hackerNewsBaseURL,
		apiURL:  hackerNewsAPIURL,
		logger:  logger,
	}
}

func (c *HackerNews) Source() string {
	return domain.SourceHackerNews
}

func (c *HackerNews) FetchTrending(ctx context.Context, limit int) ([]domain.RawItem, error) {
	items, err := c.fromFrontPage(ctx, limit)
	if err == nil && len(items) > 0 {
		return items, nil
	}

	if err != nil {
		c.logger.Warn().Err(err).Msg("front page scrape failed, falling back to official API")
	}

	return c.fromAPI(ctx, limit)
}

func (c *HackerNews) fromFrontPage(ctx context.Context, limit int) ([]domain.RawItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get front page: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get front page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse front page: %w", err)
	}

	return c.parseFrontPage(doc, limit), nil
}

func (c *HackerNews) parseFrontPage(doc *goquery.Document, limit int) []domain.RawItem {
	items := make([]domain.RawItem, 0, limit)

	doc.Find("tr.athing").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		link := row.Find(".titleline > a").First()

		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")

		if title == "" || href == "" {
			return true
		}

		score := strings.TrimSpace(row.Next().Find("span.score").Text())

		items = append(items, domain.RawItem{
			Source:     domain.SourceHackerNews,
			Title:      title,
			URL:        c.resolveURL(href),
			Popularity: score,
		})

		return len(items) < limit
	})

	return items
}

// resolveURL absolutizes relative story links such as "item?id=123".
func (c *HackerNews) resolveURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	if u.IsAbs() {
		return href
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return href
	}

	return base.ResolveReference(u).String()
}

type hackerNewsStory struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Score int    `json:"score"`
	Time  int64  `json:"time"`
}

func (c *HackerNews) fromAPI(ctx context.Context, limit int) ([]domain.RawItem, error) {
	var ids []int64
	if err := getJSON(ctx, c.client, c.apiURL+"/topstories.json", nil, &ids); err != nil {
		return nil, fmt.Errorf("fetch top stories: %w", err)
	}

	if len(ids) > limit {
		ids = ids[:limit]
	}

	items := make([]domain.RawItem, 0, len(ids))

	for _, id := range ids {
		var story hackerNewsStory
		if err := getJSON(ctx, c.client, fmt.Sprintf("%s/item/%d.json", c.apiURL, id), nil, &story); err != nil {
			c.logger.Warn().Err(err).Int64("story_id", id).Msg("skipping unfetchable story")

			continue
		}

		storyURL := story.URL
		if storyURL == "" {
			storyURL = fmt.Sprintf("%sitem?id=%d", c.baseURL, id)
		}

		items = append(items, domain.RawItem{
			Source:      domain.SourceHackerNews,
			Title:       story.Title,
			URL:         storyURL,
			Popularity:  fmt.Sprintf("%d points", story.Score),
			PublishedAt: time.Unix(story.Time, 0).UTC().Format(time.RFC3339),
		})
	}

	return items, nil
}
