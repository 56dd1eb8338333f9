package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash("Title", "https://example.com", "desc")
	b := ContentHash("Title", "https://example.com", "desc")

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestContentHash_SensitiveToEveryField(t *testing.T) {
	base := ContentHash("Title", "https://example.com", "desc")

	assert.NotEqual(t, base, ContentHash("Other", "https://example.com", "desc"))
	assert.NotEqual(t, base, ContentHash("Title", "https://example.com/2", "desc"))
	assert.NotEqual(t, base, ContentHash("Title", "https://example.com", "other"))
}

func TestDefaultScores(t *testing.T) {
	scores := DefaultScores()

	assert.Equal(t, DefaultEngagementScore, scores.Engagement)
	assert.Equal(t, DefaultPersistenceScore, scores.Persistence)
	assert.Equal(t, DefaultCorrelationScore, scores.Correlation)
}
