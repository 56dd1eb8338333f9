package llm

import (
	"strconv"
	"time"

	"github.com/dailybrief/daily-brief-bot/internal/platform/observability"
)

func observeGeneration(provider string, elapsed time.Duration, success bool) {
	observability.LLMRequestDuration.
		WithLabelValues(provider, strconv.FormatBool(success)).
		Observe(elapsed.Seconds())
}
