package crawler

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

const bilibiliVideosURL = "https://api.bilibili.com/x/space/wbi/arc/search"

// Bilibili fetches the newest uploads of the configured creators, merged
// and sorted by publish time.
type Bilibili struct {
	client *http.Client
	apiURL string
	uids   []string
	logger *zerolog.Logger
}

func NewBilibili(uids []string, logger *zerolog.Logger) *Bilibili {
	return &Bilibili{
		client: newHTTPClient(),
		apiURL: bilibiliVideosURL,
		uids:   uids,
		logger: logger,
	}
}

func (c *Bilibili) Source() string {
	return domain.SourceBilibili
}

type bilibiliResponse struct {
	Code int `json:"code"`
	Data struct {
		List struct {
			Vlist []bilibiliVideo `json:"vlist"`
		} `json:"list"`
	} `json:"data"`
}

type bilibiliVideo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Bvid        string `json:"bvid"`
	Author      string `json:"author"`
	Created     int64  `json:"created"`
	Play        int64  `json:"play"`
}

func (c *Bilibili) FetchTrending(ctx context.Context, limit int) ([]domain.RawItem, error) {
	type timedItem struct {
		item    domain.RawItem
		created int64
	}

	all := make([]timedItem, 0, limit*len(c.uids))

	for _, uid := range c.uids {
		videos, err := c.creatorVideos(ctx, uid, limit)
		if err != nil {
			c.logger.Warn().Err(err).Str("uid", uid).Msg("skipping unreachable creator")

			continue
		}

		for _, v := range videos {
			all = append(all, timedItem{
				created: v.Created,
				item: domain.RawItem{
					Source:      domain.SourceBilibili,
					Title:       v.Title,
					URL:         "https://www.bilibili.com/video/" + v.Bvid,
					Description: v.Description,
					Popularity:  strconv.FormatInt(v.Play, 10),
					PublishedAt: time.Unix(v.Created, 0).UTC().Format(time.RFC3339),
					Extra:       map[string]string{"up_name": v.Author},
				},
			})
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].created > all[j].created })

	if len(all) > limit {
		all = all[:limit]
	}

	items := make([]domain.RawItem, 0, len(all))
	for _, t := range all {
		items = append(items, t.item)
	}

	return items, nil
}

func (c *Bilibili) creatorVideos(ctx context.Context, uid string, limit int) ([]bilibiliVideo, error) {
	url := fmt.Sprintf("%s?mid=%s&ps=%d&pn=1&order=pubdate&platform=web", c.apiURL, uid, limit)
	headers := map[string]string{
		"Origin":  "https://space.bilibili.com",
		"Referer": fmt.Sprintf("https://space.bilibili.com/%s/", uid),
	}

	var resp bilibiliResponse
	if err := getJSON(ctx, c.client, url, headers, &resp); err != nil {
		return nil, fmt.Errorf("fetch creator videos: %w", err)
	}

	if resp.Code != 0 {
		return nil, fmt.Errorf("fetch creator videos: api code %d", resp.Code)
	}

	return resp.Data.List.Vlist, nil
}
