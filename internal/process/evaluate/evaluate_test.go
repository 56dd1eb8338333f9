package evaluate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

var testItems = []domain.ContentItem{
	{Source: domain.SourceHackerNews, Title: "A new database paper", URL: "https://hn/1"},
	{Source: domain.SourceWeibo, Title: "热搜话题", URL: "https://wb/1"},
	{Source: domain.SourceBilibili, Title: "UP主更新", URL: "https://bl/1"},
}

type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt

	return f.response, f.err
}

func TestRuleEvaluator_RetainsAllItems(t *testing.T) {
	out := NewRule().Evaluate(context.Background(), testItems)

	assert.Equal(t, domain.ProvenanceRule, out.Provenance)
	require.Len(t, out.Results, len(testItems))

	for i, r := range out.Results {
		assert.True(t, testItems[i].SameIdentity(r.Source, r.Title, r.URL))
		assert.NotEmpty(t, r.ValueSummary)
	}
}

func TestModelEvaluator_ValidResponse(t *testing.T) {
	gen := &fakeGenerator{
		response: `[{"source":"HackerNews","title":"A new database paper","url":"https://hn/1","value_summary":"solid systems work"}]`,
	}

	logger := zerolog.Nop()
	e := NewModel(gen, nil, 30, &logger)

	out := e.Evaluate(context.Background(), testItems)

	assert.Equal(t, domain.ProvenanceModel, out.Provenance)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "https://hn/1", out.Results[0].URL)
}

func TestModelEvaluator_FencedResponse(t *testing.T) {
	gen := &fakeGenerator{
		response: "```json\n[{\"source\":\"Weibo\",\"title\":\"热搜话题\",\"url\":\"https://wb/1\",\"value_summary\":\"widely discussed\"}]\n```",
	}

	logger := zerolog.Nop()
	e := NewModel(gen, nil, 30, &logger)

	out := e.Evaluate(context.Background(), testItems)

	assert.Equal(t, domain.ProvenanceModel, out.Provenance)
	require.Len(t, out.Results, 1)
	assert.Equal(t, domain.SourceWeibo, out.Results[0].Source)
}

func TestModelEvaluator_HallucinatedEntriesDropped(t *testing.T) {
	// All three entries are fabricated; a parseable response with zero
	// valid entries propagates as empty, not as a rule fallback.
	gen := &fakeGenerator{
		response: `[
{"source":"HackerNews","title":"Made up","url":"https://nowhere/1","value_summary":"x"},
{"source":"Weibo","title":"热搜话题","url":"https://wb/999","value_summary":"x"},
{"source":"CNN","title":"A new database paper","url":"https://hn/1","value_summary":"x"}
]`,
	}

	logger := zerolog.Nop()
	e := NewModel(gen, nil, 30, &logger)

	out := e.Evaluate(context.Background(), testItems)

	assert.Equal(t, domain.ProvenanceModel, out.Provenance)
	assert.Empty(t, out.Results)
}

func TestModelEvaluator_GenerateFailureFallsBackToRule(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}

	logger := zerolog.Nop()
	e := NewModel(gen, nil, 30, &logger)

	out := e.Evaluate(context.Background(), testItems)

	assert.Equal(t, domain.ProvenanceRule, out.Provenance)
	assert.Len(t, out.Results, len(testItems))
}

func TestModelEvaluator_UnparseableResponseFallsBackToRule(t *testing.T) {
	gen := &fakeGenerator{response: "I could not decide, sorry."}

	logger := zerolog.Nop()
	e := NewModel(gen, nil, 30, &logger)

	out := e.Evaluate(context.Background(), testItems)

	assert.Equal(t, domain.ProvenanceRule, out.Provenance)
	assert.Len(t, out.Results, len(testItems))
}

func TestModelEvaluator_EmptyInputSkipsGeneration(t *testing.T) {
	gen := &fakeGenerator{response: "should never be called"}

	logger := zerolog.Nop()
	e := NewModel(gen, nil, 30, &logger)

	out := e.Evaluate(context.Background(), nil)

	assert.Empty(t, out.Results)
	assert.Empty(t, gen.prompt)
}

func TestModelEvaluator_PromptCarriesCandidatesAndWeighting(t *testing.T) {
	gen := &fakeGenerator{response: `[]`}

	logger := zerolog.Nop()
	e := NewModel(gen, nil, 30, &logger)
	e.Evaluate(context.Background(), testItems)

	assert.Contains(t, gen.prompt, "https://hn/1")
	assert.Contains(t, gen.prompt, "Importance and impact (40%)")
	assert.Contains(t, gen.prompt, "Past 30 days")
	assert.Contains(t, gen.prompt, `"HackerNews":1`)
}

func TestValidate_TruncatesLongSummaries(t *testing.T) {
	logger := zerolog.Nop()

	long := strings.Repeat("很", 150)
	results := []domain.SelectionResult{
		{Source: domain.SourceWeibo, Title: "热搜话题", URL: "https://wb/1", ValueSummary: long},
	}

	valid := Validate(results, testItems, &logger)
	require.Len(t, valid, 1)
	assert.Len(t, []rune(valid[0].ValueSummary), 100)
}

func TestParseSelection_PrefersFirstArrayLine(t *testing.T) {
	raw := "Selection below:\n[{\"source\":\"A\",\"title\":\"t\",\"url\":\"u\",\"value_summary\":\"s\"}]\ntrailing text"

	results, err := parseSelection(raw)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].Source)
}
