package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
	"github.com/dailybrief/daily-brief-bot/internal/output/mailer"
	"github.com/dailybrief/daily-brief-bot/internal/platform/schedule"
	"github.com/dailybrief/daily-brief-bot/internal/process/pipeline"
)

type fakeFetcher struct {
	items []domain.RawItem
}

func (f *fakeFetcher) FetchAll(_ context.Context) []domain.RawItem {
	return f.items
}

type fakeSelector struct {
	outcome pipeline.Outcome
	err     error
	calls   int
}

func (f *fakeSelector) Select(_ context.Context, _ []domain.RawItem) (pipeline.Outcome, error) {
	f.calls++

	return f.outcome, f.err
}

type fakeMailer struct {
	sent    []mailer.Message
	results []mailer.Result
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) []mailer.Result {
	f.sent = append(f.sent, msg)

	return f.results
}

func newTestScheduler(t *testing.T, selector *fakeSelector, mail *fakeMailer) *Scheduler {
	t.Helper()

	sched, err := schedule.NewDaily("08:00", "UTC")
	require.NoError(t, err)

	logger := zerolog.Nop()

	s := New(&fakeFetcher{}, selector, mail, sched, &logger)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) }

	return s
}

func selectionOutcome() pipeline.Outcome {
	return pipeline.Outcome{
		RunID: uuid.New(),
		Results: []domain.SelectionResult{
			{Source: domain.SourceHackerNews, Title: "New compiler research", URL: "https://hn/1", ValueSummary: "why it matters"},
			{Source: domain.SourceBilibili, Title: "Studio update", URL: "https://bl/1", ValueSummary: "new series"},
		},
		Selected: []domain.ContentItem{
			{Source: domain.SourceHackerNews, Title: "New compiler research", URL: "https://hn/1"},
			{Source: domain.SourceBilibili, Title: "Studio update", URL: "https://bl/1", Extra: map[string]string{"up_name": "up-a"}},
		},
		Provenance: domain.ProvenanceRule,
	}
}

func TestRunOnce_SendsRenderedDigest(t *testing.T) {
	selector := &fakeSelector{outcome: selectionOutcome()}
	mail := &fakeMailer{results: []mailer.Result{{Recipient: "a@example.com"}}}

	s := newTestScheduler(t, selector, mail)

	require.NoError(t, s.RunOnce(context.Background()))
	require.Len(t, mail.sent, 1)

	msg := mail.sent[0]

	assert.Equal(t, "Daily Brief - 2025-06-01", msg.Subject)
	assert.Contains(t, msg.HTML, "New compiler research")
	assert.Contains(t, msg.Text, "Studio update")
	assert.Contains(t, msg.Text, "(up-a)")
}

func TestRunOnce_EmptySelectionSkipsSend(t *testing.T) {
	selector := &fakeSelector{outcome: pipeline.Outcome{RunID: uuid.New(), Provenance: domain.ProvenanceRule}}
	mail := &fakeMailer{}

	s := newTestScheduler(t, selector, mail)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Empty(t, mail.sent)
	assert.Equal(t, 1, selector.calls)
}

func TestRunOnce_SelectionFailurePropagates(t *testing.T) {
	selector := &fakeSelector{err: errors.New("db down")}
	mail := &fakeMailer{}

	s := newTestScheduler(t, selector, mail)

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Empty(t, mail.sent)
}

func TestRunOnce_AllRecipientsFailedIsError(t *testing.T) {
	selector := &fakeSelector{outcome: selectionOutcome()}
	mail := &fakeMailer{results: []mailer.Result{
		{Recipient: "a@example.com", Err: errors.New("bounced")},
		{Recipient: "b@example.com", Err: errors.New("bounced")},
	}}

	s := newTestScheduler(t, selector, mail)

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 recipients")
}

func TestRunOnce_PartialDeliveryIsSuccess(t *testing.T) {
	selector := &fakeSelector{outcome: selectionOutcome()}
	mail := &fakeMailer{results: []mailer.Result{
		{Recipient: "a@example.com"},
		{Recipient: "b@example.com", Err: errors.New("bounced")},
	}}

	s := newTestScheduler(t, selector, mail)

	require.NoError(t, s.RunOnce(context.Background()))
}
