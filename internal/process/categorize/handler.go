package categorize

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dailybrief/daily-brief-bot/internal/platform/observability"
)

// Feedback direction labels for metrics.
const (
	directionUp   = "up"
	directionDown = "down"
)

type feedbackRequest struct {
	Source   string `json:"source"`
	Positive bool   `json:"positive"`
}

type feedbackResponse struct {
	Section string  `json:"section"`
	Score   float64 `json:"score"`
}

type feedbackHandler struct {
	feedback *Feedback
	logger   *zerolog.Logger
}

// NewFeedbackHandler exposes Feedback.Apply as a small JSON endpoint:
// POST {"source": "...", "positive": true} -> {"section": "...", "score": N}.
func NewFeedbackHandler(feedback *Feedback, logger *zerolog.Logger) http.Handler {
	return &feedbackHandler{feedback: feedback, logger: logger}
}

func (h *feedbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid feedback payload", http.StatusBadRequest)

		return
	}

	if req.Source == "" {
		http.Error(w, "source is required", http.StatusBadRequest)

		return
	}

	section, score, err := h.feedback.Apply(r.Context(), req.Source, req.Positive)
	if err != nil {
		h.logger.Error().Err(err).Str("source", req.Source).Msg("feedback apply failed")
		http.Error(w, "feedback not recorded", http.StatusInternalServerError)

		return
	}

	direction := directionUp
	if !req.Positive {
		direction = directionDown
	}

	observability.FeedbackEvents.WithLabelValues(section, direction).Inc()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(feedbackResponse{Section: section, Score: score}); err != nil {
		h.logger.Warn().Err(err).Msg("feedback response write failed")
	}
}
