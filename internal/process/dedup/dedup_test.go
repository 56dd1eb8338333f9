package dedup

import (
	"fmt"
	"testing"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "hello world", b: "hello world", want: 1.0},
		{name: "both_empty", a: "", b: "", want: 1.0},
		{name: "one_empty", a: "abc", b: "", want: 0.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		{name: "half", a: "ab", b: "ax", want: 0.5},
		{name: "unicode_identical", a: "微博热搜", b: "微博热搜", want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatio_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"abcde", "abfde"},
		{"the quick brown fox", "the slow brown fox"},
		{"完全不同的内容", "something else"},
	}

	for _, p := range pairs {
		got := Ratio(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Ratio(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestRatio_Symmetric(t *testing.T) {
	a, b := "parallel test runs", "parallel digest runs"
	if Ratio(a, b) != Ratio(b, a) {
		t.Errorf("Ratio is not symmetric for %q / %q", a, b)
	}
}

func TestCache_EmptyCheck(t *testing.T) {
	c := New(10, 0.8)

	_, ok := c.Check(domain.ContentItem{Title: "A"})
	if ok {
		t.Error("Check on empty cache should report ok=false")
	}
}

func TestCache_IdenticalItemTwice(t *testing.T) {
	c := New(10, 0.8)
	item := domain.ContentItem{Source: domain.SourceWeibo, Title: "A", URL: "u1"}

	if _, ok := c.Check(item); ok {
		t.Fatal("first check should see an empty cache")
	}

	c.Remember(item)

	sim, ok := c.Check(item)
	if !ok {
		t.Fatal("second check should see a non-empty cache")
	}

	if sim != 1.0 {
		t.Errorf("identical item similarity = %v, want 1.0", sim)
	}

	if sim <= c.Threshold() {
		t.Errorf("similarity %v should exceed threshold %v", sim, c.Threshold())
	}
}

func TestCache_WindowEviction(t *testing.T) {
	c := New(3, 0.8)

	for i := 0; i < 4; i++ {
		c.Remember(domain.ContentItem{Title: fmt.Sprintf("title-%d", i)})
	}

	// The first entry was evicted, so an exact copy of it no longer
	// matches at 1.0.
	sim, ok := c.Check(domain.ContentItem{Title: "title-0"})
	if !ok {
		t.Fatal("cache should not be empty")
	}

	if sim == 1.0 {
		t.Error("evicted entry should not produce an exact match")
	}
}

func TestCache_Reset(t *testing.T) {
	c := New(10, 0.8)
	c.Remember(domain.ContentItem{Title: "A"})
	c.Reset()

	if _, ok := c.Check(domain.ContentItem{Title: "A"}); ok {
		t.Error("Check after Reset should report ok=false")
	}
}
