package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse indicates a provider returned no usable content.
var ErrEmptyResponse = errors.New("empty llm response")

// ErrMockProvider is returned by the mock so callers exercise their rule
// fallback when no real provider is configured.
var ErrMockProvider = errors.New("mock llm provider has no model")

type mockProvider struct{}

func newMockProvider() *mockProvider {
	return &mockProvider{}
}

func (p *mockProvider) Name() string {
	return "mock"
}

func (p *mockProvider) Generate(_ context.Context, _ string) (string, error) {
	return "", ErrMockProvider
}
