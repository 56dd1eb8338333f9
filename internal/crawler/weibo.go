package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

var errEmptyCardList = errors.New("response carries no cards")

const weiboTrendingURL = "https://m.weibo.cn/api/container/getIndex?containerid=106003type%3D25%26t%3D3%26disable_hot%3D1%26filter_type%3Drealtimehot"

// Card type 4 marks real hot-search topics; other types are banners and
// promotions.
const weiboTopicCardType = 4

// Weibo reads the mobile hot-search container API.
type Weibo struct {
	client *http.Client
	apiURL string
	logger *zerolog.Logger
}

func NewWeibo(logger *zerolog.Logger) *Weibo {
	return &Weibo{
		client: newHTTPClient(),
		apiURL: weiboTrendingURL,
		logger: logger,
	}
}

func (c *Weibo) Source() string {
	return domain.SourceWeibo
}

type weiboResponse struct {
	Data struct {
		Cards []struct {
			CardGroup []weiboCard `json:"card_group"`
		} `json:"cards"`
	} `json:"data"`
}

type weiboCard struct {
	CardType int             `json:"card_type"`
	Desc     string          `json:"desc"`
	Scheme   string          `json:"scheme"`
	DescExtr json.RawMessage `json:"desc_extr"`
}

func (c *Weibo) FetchTrending(ctx context.Context, limit int) ([]domain.RawItem, error) {
	headers := map[string]string{
		"Referer": "https://weibo.com/",
		"Origin":  "https://weibo.com",
	}

	var resp weiboResponse
	if err := getJSON(ctx, c.client, c.apiURL, headers, &resp); err != nil {
		return nil, fmt.Errorf("fetch weibo trending: %w", err)
	}

	if len(resp.Data.Cards) == 0 {
		return nil, fmt.Errorf("fetch weibo trending: %w", errEmptyCardList)
	}

	items := make([]domain.RawItem, 0, limit)

	for _, card := range resp.Data.Cards[0].CardGroup {
		if card.CardType != weiboTopicCardType {
			continue
		}

		items = append(items, domain.RawItem{
			Source:     domain.SourceWeibo,
			Title:      card.Desc,
			URL:        card.Scheme,
			Popularity: hotValue(card.DescExtr),
		})

		if len(items) >= limit {
			break
		}
	}

	return items, nil
}

// hotValue reads desc_extr, which the API serves either as a number or as
// a label like "1023万" or "正在热转".
func hotValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}

	if !strings.ContainsFunc(s, unicode.IsDigit) {
		return "0"
	}

	return s
}
