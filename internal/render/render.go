// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes the daily digest as a Markdown document.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

const (
	dateLayout      = "2006-01-02"
	publishedLayout = "2006-01-02 15:04:05-07:00"
	missingJournal  = "N/A"
)

// Renderer writes digests into an output directory.
type Renderer struct {
	outputDir string
	timezone  string
	now       func() time.Time
}

// NewRenderer returns a Renderer for the configured output directory and
// timezone.
func NewRenderer(cfg types.AppConfig) *Renderer {
	return &Renderer{outputDir: cfg.OutputDir, timezone: cfg.Timezone, now: time.Now}
}

// Render writes recs to <outputDir>/new_papers_<date>.md and returns the
// path. An empty recs still produces a valid document with only a title.
func (r *Renderer) Render(recs types.Recommendations) (string, error) {
	loc, err := types.AppConfig{Timezone: r.timezone}.Location()
	if err != nil {
		return "", err
	}
	date := r.now().In(loc).Format(dateLayout)

	content := Markdown(date, recs)

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(r.outputDir, FileName(date))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// FileName returns the digest file name for date (YYYY-MM-DD).
func FileName(date string) string {
	return "new_papers_" + date + ".md"
}

// Markdown formats the digest body.
func Markdown(date string, recs types.Recommendations) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# New Papers in %s\n\n", date)

	for _, category := range recs.Categories() {
		fmt.Fprintf(&b, "## Category: %s\n\n", category)
		for _, rec := range recs.Get(category) {
			writePaper(&b, rec)
		}
	}
	return b.String()
}

func writePaper(b *strings.Builder, rec types.Recommendation) {
	p := rec.Paper
	journal := p.JournalRef
	if journal == "" {
		journal = missingJournal
	}
	published := ""
	if !p.Published.IsZero() {
		published = p.Published.Format(publishedLayout)
	}

	fmt.Fprintf(b, "### %s\n", p.Title)
	fmt.Fprintf(b, "- **ID**: %s\n", p.ID)
	fmt.Fprintf(b, "- **Authors**: %s\n", strings.Join(p.Authors, ", "))
	fmt.Fprintf(b, "- **Published Date**: %s\n", published)
	fmt.Fprintf(b, "- **Link**: [arXiv Link](%s)\n", p.Link)
	fmt.Fprintf(b, "- **Abstract**: %s\n", p.Abstract)
	fmt.Fprintf(b, "- **Journal Reference**: %s\n", journal)
	fmt.Fprintf(b, "- **Reason for Recommendation**: %s\n\n", rec.Reason)
}
