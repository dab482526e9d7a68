// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data shared across the digest pipeline.
package types

import "time"

// Paper holds the bibliographic metadata of one fetched arXiv paper.
// Only the ID outlives a run; it is recorded in the processed-ID store.
type Paper struct {
	// ID is the last path segment of the entry URL (e.g. "2401.01234v1").
	// It is treated as an opaque token.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title with whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the submission timestamp in the configured location.
	Published time.Time `json:"published" yaml:"published"`

	// Link is the canonical abstract page URL.
	Link string `json:"link" yaml:"link"`

	// Abstract is the paper summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// JournalRef is the journal reference, empty when the paper has none.
	JournalRef string `json:"journal_ref,omitempty" yaml:"journal_ref,omitempty"`
}
