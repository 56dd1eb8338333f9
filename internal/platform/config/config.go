package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Selection modes.
const (
	SelectionModeRule  = "rule"
	SelectionModeModel = "model"
)

var errInvalidSelectionMode = errors.New("selection mode must be \"rule\" or \"model\"")

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`

	// Selection pipeline
	SelectionMode  string        `env:"SELECTION_MODE" envDefault:"rule"`
	DedupWindow    int           `env:"DEDUP_WINDOW" envDefault:"100"`
	DedupThreshold float64       `env:"DEDUP_THRESHOLD" envDefault:"0.8"`
	LookbackDays   int           `env:"HISTORY_LOOKBACK_DAYS" envDefault:"30"`
	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`

	// Model capability (optional; rule mode needs none of these)
	LLMAPIKey       string        `env:"LLM_API_KEY"`
	LLMModel        string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `env:"ANTHROPIC_MODEL" envDefault:"claude-haiku-4.5"`
	LLMTimeout      time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	LLMMaxRetries   int           `env:"LLM_MAX_RETRIES" envDefault:"2"`
	RateLimitRPS    int           `env:"RATE_LIMIT_RPS" envDefault:"1"`

	// Crawlers
	HackerNewsLimit int      `env:"HACKER_NEWS_LIMIT" envDefault:"10"`
	WeiboLimit      int      `env:"WEIBO_LIMIT" envDefault:"10"`
	BilibiliLimit   int      `env:"BILIBILI_LIMIT" envDefault:"5"`
	BilibiliUIDs    []string `env:"BILIBILI_UIDS" envSeparator:","`
	RSSFeeds        []string `env:"RSS_FEEDS" envSeparator:","`
	RSSLimit        int      `env:"RSS_LIMIT" envDefault:"10"`

	// Digest schedule
	DigestSendTime string `env:"DIGEST_SEND_TIME" envDefault:"08:00"`
	DigestTimezone string `env:"DIGEST_TIMEZONE" envDefault:"Asia/Shanghai"`

	// Email transport
	SMTPServer     string   `env:"SMTP_SERVER"`
	SMTPPort       int      `env:"SMTP_PORT" envDefault:"465"`
	SenderEmail    string   `env:"SENDER_EMAIL"`
	SenderPassword string   `env:"SENDER_PASSWORD"`
	Subscribers    []string `env:"SUBSCRIBERS" envSeparator:","`

	HealthPort int `env:"HEALTH_PORT" envDefault:"8080"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	if cfg.SelectionMode != SelectionModeRule && cfg.SelectionMode != SelectionModeModel {
		return nil, fmt.Errorf("%w, got %q", errInvalidSelectionMode, cfg.SelectionMode)
	}

	return cfg, nil
}
