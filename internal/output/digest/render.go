package digest

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dailybrief/daily-brief-bot/internal/core/domain"
	"github.com/dailybrief/daily-brief-bot/internal/process/categorize"
)

// Human-facing section headings, keyed by section.
var sectionTitles = map[string]string{
	domain.SectionAcademic:          "Academic & Research",
	domain.SectionGaming:            "Gaming",
	domain.SectionInternationalNews: "International News",
	domain.SectionChinaNews:         "China News",
	domain.SectionBilibiliUpdates:   "Bilibili Updates",
}

// Entry is one selected item with its evaluation summary, ready to render.
type Entry struct {
	Source  string
	Title   string
	URL     string
	Summary string
	UpName  string
}

// Section is a rendered digest section. Sections appear in the fixed
// order even when empty; the templates skip empty ones.
type Section struct {
	Key     string
	Title   string
	Entries []Entry
}

// Content is a fully grouped digest ready for the templates.
type Content struct {
	Date     time.Time
	Sections []Section
}

// BuildContent groups the selection into sections using the same
// classification the rule evaluator uses. Results and items are parallel
// slices as produced by a pipeline run.
func BuildContent(date time.Time, results []domain.SelectionResult, items []domain.ContentItem) Content {
	bySection := make(map[string][]Entry, len(domain.SectionKeys()))

	for i, r := range results {
		if i >= len(items) {
			break
		}

		entry := Entry{
			Source:  r.Source,
			Title:   r.Title,
			URL:     r.URL,
			Summary: r.ValueSummary,
			UpName:  items[i].Extra["up_name"],
		}

		key := categorize.Classify(items[i])
		bySection[key] = append(bySection[key], entry)
	}

	content := Content{Date: date}

	for _, key := range domain.SectionKeys() {
		content.Sections = append(content.Sections, Section{
			Key:     key,
			Title:   sectionTitles[key],
			Entries: bySection[key],
		})
	}

	return content
}

// Subject returns the mail subject line for a digest date.
func Subject(date time.Time) string {
	return fmt.Sprintf("Daily Brief - %s", date.Format("2006-01-02"))
}

var htmlTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Helvetica, Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px;">
  <div style="max-width: 640px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 24px;">
    <h1 style="font-size: 22px; margin: 0 0 4px;">Daily Brief</h1>
    <p style="color: #888888; margin: 0 0 20px;">{{.Date.Format "Monday, January 2, 2006"}}</p>
{{- range .Sections}}{{if .Entries}}
    <h2 style="font-size: 16px; border-bottom: 2px solid #e8e8e8; padding-bottom: 6px; margin: 24px 0 12px;">{{.Title}}</h2>
{{- range .Entries}}
    <div style="margin: 0 0 14px;">
      <a href="{{.URL}}" style="color: #1a6fb5; font-weight: 600; text-decoration: none;">{{.Title}}</a>
      {{- if .UpName}}
      <span style="color: #999999; font-size: 13px;"> · {{.UpName}}</span>
      {{- end}}
      {{- if .Summary}}
      <p style="color: #444444; font-size: 14px; margin: 4px 0 0;">{{.Summary}}</p>
      {{- end}}
    </div>
{{- end}}
{{- end}}{{end}}
    <p style="color: #bbbbbb; font-size: 12px; margin-top: 28px;">Sent by Daily Brief Bot</p>
  </div>
</body>
</html>
`))

// RenderHTML renders the styled HTML body.
func RenderHTML(content Content) (string, error) {
	var out strings.Builder

	if err := htmlTemplate.Execute(&out, content); err != nil {
		return "", fmt.Errorf("render html digest: %w", err)
	}

	return out.String(), nil
}

// RenderText renders the plain-text alternative body.
func RenderText(content Content) string {
	var out strings.Builder

	out.WriteString("Daily Brief\n")
	out.WriteString(content.Date.Format("Monday, January 2, 2006"))
	out.WriteString("\n")

	for _, section := range content.Sections {
		if len(section.Entries) == 0 {
			continue
		}

		out.WriteString("\n== ")
		out.WriteString(section.Title)
		out.WriteString(" ==\n")

		for _, entry := range section.Entries {
			out.WriteString("* ")
			out.WriteString(entry.Title)

			if entry.UpName != "" {
				out.WriteString(" (")
				out.WriteString(entry.UpName)
				out.WriteString(")")
			}

			out.WriteString("\n  ")
			out.WriteString(entry.URL)
			out.WriteString("\n")

			if entry.Summary != "" {
				out.WriteString("  ")
				out.WriteString(entry.Summary)
				out.WriteString("\n")
			}
		}
	}

	return out.String()
}
