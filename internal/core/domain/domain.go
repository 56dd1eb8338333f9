package domain

import "time"

// Source identifiers as they appear in crawled items and persisted rows.
const (
	SourceHackerNews = "HackerNews"
	SourceWeibo      = "Weibo"
	SourceBilibili   = "Bilibili"
)

// Section keys. The renderer depends on this set being stable, so every
// categorization result contains all of them even when empty.
const (
	SectionAcademic          = "academic"
	SectionGaming            = "gaming"
	SectionInternationalNews = "international_news"
	SectionChinaNews         = "china_news"
	SectionBilibiliUpdates   = "bilibili_updates"
)

// SectionKeys lists all fixed sections in render order.
func SectionKeys() []string {
	return []string{
		SectionAcademic,
		SectionGaming,
		SectionInternationalNews,
		SectionChinaNews,
		SectionBilibiliUpdates,
	}
}

// Section score bounds and the feedback adjustment step.
const (
	SectionScoreMin     = 1.0
	SectionScoreMax     = 10.0
	SectionScoreDefault = 5.0
	FeedbackStep        = 0.5
)

// RawItem is a single entry as returned by a source crawler, before
// normalization. Popularity and PublishedAt are kept as strings because
// their formats vary per source.
type RawItem struct {
	Source      string            `json:"source"`
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Description string            `json:"description,omitempty"`
	Popularity  string            `json:"popularity,omitempty"`
	PublishedAt string            `json:"published_at,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// ContentItem is the canonical normalized item flowing through the
// selection pipeline. Source, Title and URL are required; the triple
// uniquely identifies an item within a single run.
type ContentItem struct {
	Source     string            `json:"source"`
	Title      string            `json:"title"`
	URL        string            `json:"url"`
	Text       string            `json:"text,omitempty"`
	Popularity float64           `json:"popularity,omitempty"`
	FetchedAt  time.Time         `json:"fetched_at"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// SameIdentity reports whether the item matches the given triple exactly.
func (c ContentItem) SameIdentity(source, title, url string) bool {
	return c.Source == source && c.Title == title && c.URL == url
}

// SelectionResult is the evaluation output for one item. Source, Title and
// URL must be copied verbatim from an input ContentItem; results whose
// triple matches no input are dropped during validation.
type SelectionResult struct {
	Source       string `json:"source"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	ValueSummary string `json:"value_summary"`
}

// Evaluation provenance values, recorded with each selection outcome.
const (
	ProvenanceModel = "claude"
	ProvenanceRule  = "local"
)

// HistoryRecord is a persisted content row used as historical context for
// future selections.
type HistoryRecord struct {
	Source           string
	Title            string
	URL              string
	ContentHash      string
	EngagementScore  float64
	PersistenceScore float64
	CorrelationScore float64
	SelectionCount   int
	LastReferenced   time.Time
}

// SelectionPattern is an aggregate counter keyed by (type, value), e.g.
// ("source", "HackerNews"). Used only as a bias signal in prompts.
type SelectionPattern struct {
	Type          string
	Value         string
	SuccessCount  int
	AvgEngagement float64
}

// Correlation links two previously selected URLs with a strength in [0,1].
type Correlation struct {
	SourceURL string
	TargetURL string
	Type      string
	Strength  float64
}

// SectionScore is the mutable 1-10 weight of a topical section.
type SectionScore struct {
	Section string
	Score   float64
}
