// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// Source returns papers for a query. ArxivClient is the production source.
type Source interface {
	Query(ctx context.Context, query string, maxResults int, loc *time.Location) ([]types.Paper, error)
}

// ProcessedSet loads the identifiers handled by earlier runs.
type ProcessedSet interface {
	Load() (map[string]struct{}, error)
}

// Fetcher pulls the configured query from a Source and drops papers that an
// earlier run already processed.
type Fetcher struct {
	source    Source
	processed ProcessedSet
	cfg       types.AppConfig
	log       *slog.Logger
}

// NewFetcher wires a Fetcher.
func NewFetcher(source Source, processed ProcessedSet, cfg types.AppConfig, log *slog.Logger) *Fetcher {
	return &Fetcher{source: source, processed: processed, cfg: cfg, log: log}
}

// Fetch returns the new papers in the source's order (newest first). An
// empty slice with a nil error means there is nothing new.
func (f *Fetcher) Fetch(ctx context.Context) ([]types.Paper, error) {
	seen, err := f.processed.Load()
	if err != nil {
		return nil, fmt.Errorf("loading processed IDs: %w", err)
	}

	loc, err := f.cfg.Location()
	if err != nil {
		return nil, err
	}

	results, err := f.source.Query(ctx, f.cfg.Query, f.cfg.MaxResults, loc)
	if err != nil {
		return nil, err
	}

	papers := make([]types.Paper, 0, len(results))
	for _, p := range results {
		if _, ok := seen[p.ID]; ok {
			f.log.Info("skip already processed paper", "paper_id", p.ID)
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}
