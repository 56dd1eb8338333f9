// Package dedup maintains a bounded in-memory window of recently processed
// content and rejects candidates that are near-duplicates of it. Similarity
// is character-sequence based, not semantic; the window lives for the
// process lifetime and is never persisted.
package dedup

import (
	"errors"
	"sync"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

const (
	// DefaultWindow bounds the number of remembered entries.
	DefaultWindow = 100

	// DefaultThreshold is the similarity above which an item is rejected.
	DefaultThreshold = 0.8
)

// ErrTooSimilar is the rejection kind surfaced for near-duplicate items.
var ErrTooSimilar = errors.New("content_too_similar")

// Rejection reports a single item dropped by the similarity check.
type Rejection struct {
	Item       domain.ContentItem
	Similarity float64
}

// Cache is a FIFO window of title+text blobs. It is safe for concurrent
// use, though the pipeline mutates it under single-writer discipline.
type Cache struct {
	mu        sync.Mutex
	window    int
	threshold float64
	entries   []string
}

// New returns a cache with the given window size and rejection threshold.
// Non-positive arguments fall back to the defaults.
func New(window int, threshold float64) *Cache {
	if window <= 0 {
		window = DefaultWindow
	}

	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &Cache{
		window:    window,
		threshold: threshold,
		entries:   make([]string, 0, window),
	}
}

// Threshold returns the configured rejection threshold.
func (c *Cache) Threshold() float64 {
	return c.threshold
}

// Check returns the maximum pairwise similarity between the candidate and
// every cached entry. ok is false when the cache is empty.
func (c *Cache) Check(item domain.ContentItem) (float64, bool) {
	blob := contentBlob(item)

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		return 0, false
	}

	maxSim := 0.0

	for _, cached := range c.entries {
		if sim := Ratio(blob, cached); sim > maxSim {
			maxSim = sim
		}
	}

	return maxSim, true
}

// Remember appends the item to the window, evicting the oldest entry when
// the window is full.
func (c *Cache) Remember(item domain.ContentItem) {
	blob := contentBlob(item)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, blob)
	if len(c.entries) > c.window {
		c.entries = c.entries[1:]
	}
}

// Reset clears the window. Test hook only.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = c.entries[:0]
}

func contentBlob(item domain.ContentItem) string {
	return item.Title + "\n" + item.Text
}
