// Package categorize assigns content items to the fixed topical sections.
// The same classification function backs both rule-based selection and
// render-time grouping so an item cannot land in different sections
// depending on the call site.
package categorize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
)

// Keyword sets, checked in precedence order. Matching is case-insensitive
// over title and text.
var academicKeywords = []string{
	"research", "paper", "study", "arxiv", "thesis", "university",
	"professor", "phd", "science", "dataset",
	"科研", "论文", "学术", "研究", "大学", "教授", "实验",
}

var gamingKeywords = []string{
	"game", "gaming", "esports", "steam", "playstation", "xbox",
	"nintendo", "console", "speedrun",
	"游戏", "电竞", "主机", "手游", "玩家", "赛事",
}

var internationalKeywords = []string{
	"world", "global", "election", "summit", "sanction", "treaty",
	"united nations", "nato", "war",
	"国际", "全球", "美国", "俄罗斯", "欧盟", "联合国", "峰会", "外交",
}

// technicalKeywords drive the HackerNews fallback into the academic bucket.
var technicalKeywords = []string{
	"ai", "llm", "machine learning", "programming", "compiler",
	"database", "kernel", "open source", "rust", "golang", "algorithm",
	"框架", "模型", "算法", "编程",
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if containsKeyword(text, kw) {
			return true
		}
	}

	return false
}

// containsKeyword matches ASCII keywords on word boundaries so that short
// ones ("ai", "war") do not fire inside unrelated words; CJK keywords have
// no word boundaries and match as substrings.
func containsKeyword(text, kw string) bool {
	if !isASCII(kw) {
		return strings.Contains(text, kw)
	}

	for start := 0; ; {
		idx := strings.Index(text[start:], kw)
		if idx < 0 {
			return false
		}

		idx += start
		end := idx + len(kw)

		if boundaryBefore(text, idx) && boundaryAfter(text, end) {
			return true
		}

		start = idx + 1
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}

func boundaryBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}

	r, _ := utf8.DecodeLastRuneInString(text[:idx])

	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}

	r, _ := utf8.DecodeRuneInString(text[end:])

	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Classify returns the section key for an item. Precedence: source-tied
// rules, then keyword rules (academic, gaming, international), then the
// HackerNews technical fallback; everything else sinks to
// international_news.
func Classify(item domain.ContentItem) string {
	switch item.Source {
	case domain.SourceWeibo:
		return domain.SectionChinaNews
	case domain.SourceBilibili:
		return domain.SectionBilibiliUpdates
	}

	text := strings.ToLower(item.Title + "\n" + item.Text)

	switch {
	case containsAny(text, academicKeywords):
		return domain.SectionAcademic
	case containsAny(text, gamingKeywords):
		return domain.SectionGaming
	case containsAny(text, internationalKeywords):
		return domain.SectionInternationalNews
	}

	if item.Source == domain.SourceHackerNews && containsAny(text, technicalKeywords) {
		return domain.SectionAcademic
	}

	return domain.SectionInternationalNews
}

// Categorize groups items by section. Every fixed section key is present
// in the result even when empty; the renderer depends on that.
func Categorize(items []domain.ContentItem) map[string][]domain.ContentItem {
	out := make(map[string][]domain.ContentItem, len(domain.SectionKeys()))
	for _, key := range domain.SectionKeys() {
		out[key] = []domain.ContentItem{}
	}

	for _, item := range items {
		key := Classify(item)
		out[key] = append(out[key], item)
	}

	return out
}

// SectionForSource maps a source to the section its feedback adjusts.
func SectionForSource(source string) string {
	switch source {
	case domain.SourceWeibo:
		return domain.SectionChinaNews
	case domain.SourceBilibili:
		return domain.SectionBilibiliUpdates
	default:
		return domain.SectionInternationalNews
	}
}
