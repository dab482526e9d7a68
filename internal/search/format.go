// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// FormatTable writes papers as a human-readable table to w.
func FormatTable(papers []types.Paper, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No new papers.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-16s  %-60s  %-20s  %s\n",
		"#", "ID", "Title", "Authors", "Published")
	fmt.Fprintln(w, strings.Repeat("-", 118))

	for i, p := range papers {
		published := ""
		if !p.Published.IsZero() {
			published = p.Published.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-4d  %-16s  %-60s  %-20s  %s\n",
			i+1, truncate(p.ID, 16), truncate(p.Title, 60), formatAuthors(p.Authors), published)
	}

	fmt.Fprintf(w, "\n%d new papers\n", len(papers))
}

// FormatJSON writes papers as indented JSON to w.
func FormatJSON(papers []types.Paper, w io.Writer) error {
	if papers == nil {
		papers = []types.Paper{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to max runes so multi-byte titles are never cut
// inside a character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
