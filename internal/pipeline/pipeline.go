// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one digest: fetch, recommend, render, convert,
// send, then record the fetched identifiers. Runs are assumed to be
// sequential; nothing guards the state file against concurrent runs.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// Fetcher returns the papers not yet processed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]types.Paper, error)
}

// Recommender selects and categorizes papers.
type Recommender interface {
	Recommend(ctx context.Context, papers []types.Paper) (types.Recommendations, error)
}

// Renderer writes the digest document and returns its path.
type Renderer interface {
	Render(recs types.Recommendations) (string, error)
}

// Converter turns the digest into a PDF and returns its path.
type Converter interface {
	Convert(ctx context.Context, src string) (string, error)
}

// Notifier delivers the digest files.
type Notifier interface {
	Send(ctx context.Context, attachments []string) error
}

// IDStore records processed paper identifiers.
type IDStore interface {
	Append(ids []string) error
}

// Summary describes what one run did.
type Summary struct {
	Fetched     int      `json:"fetched"`
	Recommended int      `json:"recommended"`
	Categories  int      `json:"categories"`
	Document    string   `json:"document,omitempty"`
	Converted   string   `json:"converted,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// Pipeline holds the stages of a run. Converter may be nil, in which case
// only the Markdown digest is sent.
type Pipeline struct {
	Fetcher     Fetcher
	Recommender Recommender
	Renderer    Renderer
	Converter   Converter
	Notifier    Notifier
	Store       IDStore
	Log         *slog.Logger
}

// Run executes one digest. It returns early with a zero Summary when there
// are no new papers. A send failure is returned before any identifier is
// recorded, so the same papers are offered again on the next run.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	p.Log.Info("starting arXiv daily paper recommendation")

	papers, err := p.Fetcher.Fetch(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("fetching papers: %w", err)
	}
	p.Log.Info("fetched papers from arXiv", "count", len(papers))
	if len(papers) == 0 {
		p.Log.Info("all latest papers have been processed before, nothing to do")
		return Summary{}, nil
	}

	sum := Summary{Fetched: len(papers)}

	recs, err := p.Recommender.Recommend(ctx, papers)
	if err != nil {
		return sum, fmt.Errorf("recommending papers: %w", err)
	}
	sum.Recommended = recs.Len()
	sum.Categories = len(recs.Categories())
	p.Log.Info("recommendations ready", "papers", sum.Recommended, "categories", sum.Categories)
	if recs.IsEmpty() {
		p.Log.Info("no papers recommended, sending an empty digest")
	}

	doc, err := p.Renderer.Render(recs)
	if err != nil {
		return sum, fmt.Errorf("rendering digest: %w", err)
	}
	sum.Document = doc
	sum.Attachments = []string{doc}

	if p.Converter != nil {
		pdf, err := p.Converter.Convert(ctx, doc)
		if err != nil {
			p.Log.Warn("PDF generation failed", "error", err)
		} else {
			sum.Converted = pdf
			sum.Attachments = append(sum.Attachments, pdf)
		}
	}

	if err := p.Notifier.Send(ctx, sum.Attachments); err != nil {
		return sum, fmt.Errorf("sending digest: %w", err)
	}

	ids := make([]string, len(papers))
	for i, paper := range papers {
		ids[i] = paper.ID
	}
	if err := p.Store.Append(ids); err != nil {
		return sum, fmt.Errorf("recording processed IDs: %w", err)
	}
	p.Log.Info("process completed", "recorded_ids", len(ids))
	return sum, nil
}
