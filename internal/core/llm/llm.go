// Package llm provides the text-generation capability behind model-backed
// selection. Providers are tried in priority order with a per-provider
// circuit breaker; the caller owns any fallback-to-rule policy.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/platform/config"
)

// Client is the single generate contract the evaluator depends on.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider is one configured backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	ErrNoProvidersAvailable = errors.New("no llm providers available")
	ErrAllProvidersFailed   = errors.New("all llm providers failed")
)

const (
	defaultCircuitThreshold = 5
	defaultCircuitTimeout   = time.Minute
	rateLimiterBurst        = 5
)

type chain struct {
	providers []Provider
	breakers  map[string]*circuitBreaker
	timeout   time.Duration
	retries   int
	backoff   time.Duration
	logger    *zerolog.Logger
}

// New builds the provider chain from config: OpenAI primary, Anthropic
// fallback. With no key configured the chain holds only the mock provider,
// which always errors so rule fallback kicks in upstream.
func New(cfg *config.Config, logger *zerolog.Logger) Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	c := &chain{
		breakers: make(map[string]*circuitBreaker),
		timeout:  cfg.LLMTimeout,
		retries:  cfg.LLMMaxRetries,
		backoff:  time.Second,
		logger:   logger,
	}

	if cfg.LLMAPIKey != "" {
		c.register(newOpenAIProvider(cfg, logger))
	}

	if cfg.AnthropicAPIKey != "" {
		c.register(newAnthropicProvider(cfg, logger))
	}

	if len(c.providers) == 0 {
		c.register(newMockProvider())
	}

	return c
}

func (c *chain) register(p Provider) {
	c.providers = append(c.providers, p)
	c.breakers[p.Name()] = newCircuitBreaker(defaultCircuitThreshold, defaultCircuitTimeout, c.logger)

	c.logger.Info().Str("provider", p.Name()).Msg("registered llm provider")
}

// Generate tries each provider in order with bounded retries. A provider
// whose circuit is open is skipped for this call.
func (c *chain) Generate(ctx context.Context, prompt string) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrNoProvidersAvailable
	}

	var lastErr error

	for _, p := range c.providers {
		breaker := c.breakers[p.Name()]
		if err := breaker.Check(); err != nil {
			c.logger.Warn().Str("provider", p.Name()).Err(err).Msg("skipping llm provider")

			lastErr = err

			continue
		}

		text, err := c.generateWithRetries(ctx, p, breaker, prompt)
		if err == nil {
			return text, nil
		}

		lastErr = err

		c.logger.Warn().Str("provider", p.Name()).Err(err).Msg("llm provider failed, trying next")
	}

	return "", fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}

func (c *chain) generateWithRetries(ctx context.Context, p Provider, breaker *circuitBreaker, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}

		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc

			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		start := time.Now()

		text, err := p.Generate(callCtx, prompt)
		if err == nil {
			breaker.RecordSuccess()
			observeGeneration(p.Name(), time.Since(start), true)

			return text, nil
		}

		breaker.RecordFailure(p.Name())
		observeGeneration(p.Name(), time.Since(start), false)

		lastErr = err

		if ctx.Err() != nil {
			return "", fmt.Errorf("llm generate: %w", lastErr)
		}
	}

	return "", fmt.Errorf("llm generate after %d attempts: %w", c.retries+1, lastErr)
}
