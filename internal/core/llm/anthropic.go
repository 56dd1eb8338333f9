package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/dailybrief/daily-brief-bot/internal/platform/config"
)

const (
	defaultAnthropicModel   = "claude-haiku-4.5"
	anthropicMaxTokens      = 4096
	anthropicContentTypeTxt = "text"
)

type anthropicProvider struct {
	client      anthropic.Client
	model       string
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
}

func newAnthropicProvider(cfg *config.Config, logger *zerolog.Logger) *anthropicProvider {
	model := cfg.AnthropicModel
	if model == "" {
		model = defaultAnthropicModel
	}

	rps := cfg.RateLimitRPS
	if rps == 0 {
		rps = 1
	}

	return &anthropicProvider{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:       model,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rps)), rateLimiterBurst),
	}
}

func (p *anthropicProvider) Name() string {
	return "anthropic"
}

func (p *anthropicProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("anthropic message: %w", ErrEmptyResponse)
	}

	var out strings.Builder

	for _, block := range resp.Content {
		if block.Type == anthropicContentTypeTxt {
			out.WriteString(block.Text)
		}
	}

	return strings.TrimSpace(out.String()), nil
}
