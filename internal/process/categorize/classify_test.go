package categorize

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		item domain.ContentItem
		want string
	}{
		{
			name: "weibo_always_china_news",
			item: domain.ContentItem{Source: domain.SourceWeibo, Title: "global election summit"},
			want: domain.SectionChinaNews,
		},
		{
			name: "bilibili_always_own_bucket",
			item: domain.ContentItem{Source: domain.SourceBilibili, Title: "new research paper"},
			want: domain.SectionBilibiliUpdates,
		},
		{
			name: "academic_keyword",
			item: domain.ContentItem{Source: domain.SourceHackerNews, Title: "New arXiv paper on transformers"},
			want: domain.SectionAcademic,
		},
		{
			name: "academic_beats_gaming",
			item: domain.ContentItem{Source: domain.SourceHackerNews, Title: "Research study of game economies"},
			want: domain.SectionAcademic,
		},
		{
			name: "gaming_keyword",
			item: domain.ContentItem{Source: domain.SourceHackerNews, Title: "Steam sale breaks records"},
			want: domain.SectionGaming,
		},
		{
			name: "gaming_keyword_chinese",
			item: domain.ContentItem{Source: domain.SourceHackerNews, Title: "某电竞战队夺冠"},
			want: domain.SectionGaming,
		},
		{
			name: "international_keyword",
			item: domain.ContentItem{Source: domain.SourceHackerNews, Title: "NATO summit concludes"},
			want: domain.SectionInternationalNews,
		},
		{
			name: "hackernews_technical_fallback",
			item: domain.ContentItem{Source: domain.SourceHackerNews, Title: "Show HN: a tiny compiler in 500 lines"},
			want: domain.SectionAcademic,
		},
		{
			name: "short_keyword_needs_word_boundary",
			item: domain.ContentItem{Source: domain.SourceHackerNews, Title: "Software awards announced"},
			want: domain.SectionInternationalNews,
		},
		{
			name: "short_keyword_as_word",
			item: domain.ContentItem{Source: domain.SourceHackerNews, Title: "AI beats humans at bridge"},
			want: domain.SectionAcademic,
		},
		{
			name: "default_sink",
			item: domain.ContentItem{Source: domain.SourceHackerNews, Title: "Pickled cucumbers appreciation thread"},
			want: domain.SectionInternationalNews,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.item)
			if got != tt.want {
				t.Errorf("Classify(%q from %s) = %q, want %q", tt.item.Title, tt.item.Source, got, tt.want)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	item := domain.ContentItem{Source: domain.SourceHackerNews, Title: "Research on game servers in wartime"}

	first := Classify(item)
	for i := 0; i < 10; i++ {
		if got := Classify(item); got != first {
			t.Fatalf("Classify not deterministic: %q then %q", first, got)
		}
	}
}

func TestCategorize_AllKeysPresentForEmptyInput(t *testing.T) {
	out := Categorize(nil)

	if len(out) != len(domain.SectionKeys()) {
		t.Fatalf("Categorize(nil) has %d keys, want %d", len(out), len(domain.SectionKeys()))
	}

	for _, key := range domain.SectionKeys() {
		items, ok := out[key]
		if !ok {
			t.Errorf("missing section key %q", key)
		}

		if len(items) != 0 {
			t.Errorf("section %q should be empty, got %d items", key, len(items))
		}
	}
}

func TestCategorize_GroupsBySection(t *testing.T) {
	items := []domain.ContentItem{
		{Source: domain.SourceWeibo, Title: "热搜话题", URL: "u1"},
		{Source: domain.SourceHackerNews, Title: "A new database paper", URL: "u2"},
		{Source: domain.SourceBilibili, Title: "UP主更新", URL: "u3"},
	}

	out := Categorize(items)

	if len(out[domain.SectionChinaNews]) != 1 {
		t.Errorf("china_news = %d items, want 1", len(out[domain.SectionChinaNews]))
	}

	if len(out[domain.SectionAcademic]) != 1 {
		t.Errorf("academic = %d items, want 1", len(out[domain.SectionAcademic]))
	}

	if len(out[domain.SectionBilibiliUpdates]) != 1 {
		t.Errorf("bilibili_updates = %d items, want 1", len(out[domain.SectionBilibiliUpdates]))
	}
}

type mapScoreStore struct {
	scores map[string]float64
}

func (f *mapScoreStore) GetSectionScores(_ context.Context) ([]domain.SectionScore, error) {
	out := make([]domain.SectionScore, 0, len(f.scores))
	for k, v := range f.scores {
		out = append(out, domain.SectionScore{Section: k, Score: v})
	}

	return out, nil
}

func (f *mapScoreStore) AdjustSectionScore(_ context.Context, section string, delta float64) (float64, error) {
	score := f.scores[section] + delta
	if score < domain.SectionScoreMin {
		score = domain.SectionScoreMin
	}

	if score > domain.SectionScoreMax {
		score = domain.SectionScoreMax
	}

	f.scores[section] = score

	return score, nil
}

func TestFeedback_ApplyIncrementsScore(t *testing.T) {
	store := &mapScoreStore{scores: map[string]float64{domain.SectionInternationalNews: 5}}
	logger := zerolog.Nop()
	fb := NewFeedback(store, &logger)

	section, score, err := fb.Apply(context.Background(), domain.SourceHackerNews, true)
	require.NoError(t, err)
	assert.Equal(t, domain.SectionInternationalNews, section)
	assert.Equal(t, 5.5, score)
}

func TestFeedback_ClampsAtMax(t *testing.T) {
	store := &mapScoreStore{scores: map[string]float64{domain.SectionInternationalNews: 5}}
	logger := zerolog.Nop()
	fb := NewFeedback(store, &logger)

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		_, _, err := fb.Apply(ctx, domain.SourceHackerNews, true)
		require.NoError(t, err)
	}

	_, score, err := fb.Apply(ctx, domain.SourceHackerNews, true)
	require.NoError(t, err)
	assert.Equal(t, domain.SectionScoreMax, score)
}

func TestFeedback_Negative(t *testing.T) {
	store := &mapScoreStore{scores: map[string]float64{domain.SectionChinaNews: 1.0}}
	logger := zerolog.Nop()
	fb := NewFeedback(store, &logger)

	section, score, err := fb.Apply(context.Background(), domain.SourceWeibo, false)
	require.NoError(t, err)
	assert.Equal(t, domain.SectionChinaNews, section)
	assert.Equal(t, domain.SectionScoreMin, score)
}
