package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, _ string) (string, error) {
	f.calls++

	return f.text, f.err
}

func newTestChain(providers ...Provider) *chain {
	logger := zerolog.Nop()
	c := &chain{
		breakers: make(map[string]*circuitBreaker),
		timeout:  time.Second,
		retries:  0,
		backoff:  time.Millisecond,
		logger:   &logger,
	}

	for _, p := range providers {
		c.register(p)
	}

	return c
}

func TestChain_PrimarySucceeds(t *testing.T) {
	primary := &fakeProvider{name: "primary", text: "ok"}
	fallback := &fakeProvider{name: "fallback", text: "unused"}

	c := newTestChain(primary, fallback)

	got, err := c.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Zero(t, fallback.calls)
}

func TestChain_FallsBackOnFailure(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("boom")}
	fallback := &fakeProvider{name: "fallback", text: "rescued"}

	c := newTestChain(primary, fallback)

	got, err := c.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "rescued", got)
	assert.Equal(t, 1, primary.calls)
}

func TestChain_AllFail(t *testing.T) {
	c := newTestChain(
		&fakeProvider{name: "a", err: errors.New("down")},
		&fakeProvider{name: "b", err: errors.New("also down")},
	)

	_, err := c.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
}

func TestChain_RetriesBeforeFallback(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("flaky")}
	c := newTestChain(primary, &fakeProvider{name: "fallback", text: "x"})
	c.retries = 2

	_, err := c.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, 3, primary.calls)
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	logger := zerolog.Nop()
	cb := newCircuitBreaker(3, time.Minute, &logger)

	require.NoError(t, cb.Check())

	for i := 0; i < 3; i++ {
		cb.RecordFailure("p")
	}

	assert.ErrorIs(t, cb.Check(), ErrCircuitOpen)
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	logger := zerolog.Nop()
	cb := newCircuitBreaker(3, time.Minute, &logger)

	cb.RecordFailure("p")
	cb.RecordFailure("p")
	cb.RecordSuccess()
	cb.RecordFailure("p")
	cb.RecordFailure("p")

	assert.NoError(t, cb.Check())
}

func TestMockProviderAlwaysErrors(t *testing.T) {
	p := newMockProvider()

	_, err := p.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrMockProvider)
}
