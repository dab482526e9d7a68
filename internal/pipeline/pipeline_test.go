// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/pdiddy/arxiv-daily/internal/convert"
	"github.com/pdiddy/arxiv-daily/internal/history"
	"github.com/pdiddy/arxiv-daily/internal/logger"
	"github.com/pdiddy/arxiv-daily/internal/recommend"
	"github.com/pdiddy/arxiv-daily/internal/render"
	"github.com/pdiddy/arxiv-daily/internal/search"
	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// --- stage fakes ---

type fakeFetcher struct {
	papers []types.Paper
	err    error
}

func (f *fakeFetcher) Fetch(context.Context) ([]types.Paper, error) { return f.papers, f.err }

type fakeRecommender struct {
	recs  types.Recommendations
	err   error
	calls int
}

func (f *fakeRecommender) Recommend(context.Context, []types.Paper) (types.Recommendations, error) {
	f.calls++
	return f.recs, f.err
}

type fakeRenderer struct {
	path  string
	calls int
}

func (f *fakeRenderer) Render(types.Recommendations) (string, error) {
	f.calls++
	return f.path, nil
}

type fakeConverter struct {
	out   string
	err   error
	calls int
}

func (f *fakeConverter) Convert(_ context.Context, src string) (string, error) {
	f.calls++
	return f.out, f.err
}

type fakeNotifier struct {
	err         error
	calls       int
	attachments []string
}

func (f *fakeNotifier) Send(_ context.Context, attachments []string) error {
	f.calls++
	f.attachments = attachments
	return f.err
}

type fakeStore struct {
	err   error
	calls int
	ids   []string
}

func (f *fakeStore) Append(ids []string) error {
	f.calls++
	f.ids = append(f.ids, ids...)
	return f.err
}

type stages struct {
	fetcher     *fakeFetcher
	recommender *fakeRecommender
	renderer    *fakeRenderer
	converter   *fakeConverter
	notifier    *fakeNotifier
	store       *fakeStore
}

func newStages(papers ...types.Paper) *stages {
	var recs types.Recommendations
	if len(papers) > 0 {
		recs.Add(types.Recommendation{Paper: papers[0], Category: "rag", Reason: "novel"})
	}
	return &stages{
		fetcher:     &fakeFetcher{papers: papers},
		recommender: &fakeRecommender{recs: recs},
		renderer:    &fakeRenderer{path: "temp/new_papers_2024-01-03.md"},
		converter:   &fakeConverter{out: "temp/new_papers_2024-01-03.pdf"},
		notifier:    &fakeNotifier{},
		store:       &fakeStore{},
	}
}

func (s *stages) pipeline(log *slog.Logger) *Pipeline {
	return &Pipeline{
		Fetcher:     s.fetcher,
		Recommender: s.recommender,
		Renderer:    s.renderer,
		Converter:   s.converter,
		Notifier:    s.notifier,
		Store:       s.store,
		Log:         log,
	}
}

func twoPapers() []types.Paper {
	return []types.Paper{
		{ID: "A1", Title: "Scaling RAG", Abstract: "Retrieval at scale."},
		{ID: "A2", Title: "Tiny Agents", Abstract: "Small agents."},
	}
}

func TestRunNoNewPapers(t *testing.T) {
	s := newStages()
	var logs bytes.Buffer

	sum, err := s.pipeline(slog.New(slog.NewTextHandler(&logs, nil))).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{}, sum)
	assert.Zero(t, s.recommender.calls)
	assert.Zero(t, s.renderer.calls)
	assert.Zero(t, s.converter.calls)
	assert.Zero(t, s.notifier.calls)
	assert.Zero(t, s.store.calls)
	assert.Contains(t, logs.String(), "processed before")
}

func TestRunHappyPath(t *testing.T) {
	s := newStages(twoPapers()...)

	sum, err := s.pipeline(logger.Discard()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Fetched)
	assert.Equal(t, 1, sum.Recommended)
	assert.Equal(t, 1, sum.Categories)
	assert.Equal(t, "temp/new_papers_2024-01-03.pdf", sum.Converted)
	assert.Equal(t, []string{"temp/new_papers_2024-01-03.md", "temp/new_papers_2024-01-03.pdf"}, s.notifier.attachments)
	assert.Equal(t, []string{"A1", "A2"}, s.store.ids, "every fetched ID is recorded, not only recommended ones")
}

func TestRunConversionFailureStillSends(t *testing.T) {
	s := newStages(twoPapers()...)
	s.converter.err = &convert.ConversionError{Tool: "pandoc", ExitCode: 43, Stderr: "pdflatex not found"}
	var logs bytes.Buffer

	sum, err := s.pipeline(slog.New(slog.NewTextHandler(&logs, nil))).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, sum.Converted)
	assert.Equal(t, []string{"temp/new_papers_2024-01-03.md"}, s.notifier.attachments)
	assert.Equal(t, 1, s.store.calls)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "pdflatex not found")
}

func TestRunWithoutConverter(t *testing.T) {
	s := newStages(twoPapers()...)
	p := s.pipeline(logger.Discard())
	p.Converter = nil

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"temp/new_papers_2024-01-03.md"}, s.notifier.attachments)
}

func TestRunEmptyRecommendationsStillSendsAndRecords(t *testing.T) {
	s := newStages(twoPapers()...)
	s.recommender.recs = types.Recommendations{}

	sum, err := s.pipeline(logger.Discard()).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, sum.Recommended)
	assert.Equal(t, 1, s.renderer.calls)
	assert.Equal(t, 1, s.notifier.calls)
	assert.Equal(t, []string{"A1", "A2"}, s.store.ids)
}

func TestRunStageErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		breakIt  func(*stages)
		wantMsg  string
		wantSent bool
	}{
		{"fetch", func(s *stages) { s.fetcher.err = boom }, "fetching papers", false},
		{"recommend", func(s *stages) { s.recommender.err = boom }, "recommending papers", false},
		{"notify", func(s *stages) { s.notifier.err = boom }, "sending digest", true},
		{"record", func(s *stages) { s.store.err = boom }, "recording processed IDs", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStages(twoPapers()...)
			tt.breakIt(s)

			_, err := s.pipeline(logger.Discard()).Run(context.Background())
			require.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, tt.wantSent, s.notifier.calls == 1)
		})
	}
}

func TestRunNotifyFailureSkipsRecording(t *testing.T) {
	s := newStages(twoPapers()...)
	s.notifier.err = errors.New("connection refused")

	_, err := s.pipeline(logger.Discard()).Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, s.store.calls)
}

// --- end to end with real stages ---

type staticSource struct{ papers []types.Paper }

func (s staticSource) Query(context.Context, string, int, *time.Location) ([]types.Paper, error) {
	return s.papers, nil
}

type cannedModel struct{ reply string }

func (m cannedModel) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m cannedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// failingTool exits nonzero like pandoc without a LaTeX engine.
type failingTool struct{}

func (failingTool) Name() string { return "pandoc" }

func (failingTool) Run(_ context.Context, _, _ string, stderr io.Writer) (int, error) {
	_, _ = io.WriteString(stderr, "pdflatex not found")
	return 43, nil
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := types.AppConfig{
		Timezone:          "UTC",
		Query:             "cat:cs.LG",
		ResearchInterests: []string{"RAG"},
		MaxResults:        50,
		OutputDir:         filepath.Join(dir, "temp"),
		StateFile:         filepath.Join(dir, "data", "processed_ids.yaml"),
	}
	log := logger.Discard()
	store := history.NewStore(cfg.StateFile)
	source := staticSource{papers: twoPapers()}
	notifier := &fakeNotifier{}

	p := &Pipeline{
		Fetcher:     search.NewFetcher(source, store, cfg, log),
		Recommender: recommend.NewEngine(cannedModel{reply: `[{"paper_id":"A1","category":"RAG","reason":"novel"}]`}, cfg, log),
		Renderer:    render.NewRenderer(cfg),
		Converter:   convert.New(failingTool{}, log),
		Notifier:    notifier,
		Store:       store,
		Log:         log,
	}

	sum, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Fetched)
	assert.Equal(t, 1, sum.Recommended)

	require.Equal(t, []string{sum.Document}, notifier.attachments)
	doc, err := os.ReadFile(sum.Document)
	require.NoError(t, err)
	text := string(doc)
	assert.Equal(t, 1, strings.Count(text, "## Category: "))
	assert.Contains(t, text, "## Category: rag")
	assert.Contains(t, text, "**ID**: A1")
	assert.Contains(t, text, "**Reason for Recommendation**: novel")
	assert.NotContains(t, text, "A2")

	seen, err := store.Load()
	require.NoError(t, err)
	assert.Contains(t, seen, "A1")
	assert.Contains(t, seen, "A2")

	// A second run finds nothing new and exits early.
	notifier.calls = 0
	sum, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
	assert.Zero(t, notifier.calls)
}
