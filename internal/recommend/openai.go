// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// NewModel returns an OpenAI-compatible chat model for the configured model
// name and optional base URL. An empty apiKey lets the provider fall back
// to OPENAI_API_KEY.
func NewModel(cfg types.AppConfig, apiKey string) (llms.Model, error) {
	opts := []openai.Option{openai.WithModel(cfg.LLMModelName)}
	if cfg.LLMBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.LLMBaseURL))
	}
	if apiKey != "" {
		opts = append(opts, openai.WithToken(apiKey))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing language model %s: %w", cfg.LLMModelName, err)
	}
	return llm, nil
}

// LazyModel defers building the client until the first call, so a run that
// finds no new papers never needs model credentials.
type LazyModel struct {
	build func() (llms.Model, error)

	once  sync.Once
	model llms.Model
	err   error
}

// NewLazyModel returns a LazyModel that calls NewModel on first use.
func NewLazyModel(cfg types.AppConfig, apiKey string) *LazyModel {
	return &LazyModel{build: func() (llms.Model, error) { return NewModel(cfg, apiKey) }}
}

func (l *LazyModel) get() (llms.Model, error) {
	l.once.Do(func() { l.model, l.err = l.build() })
	return l.model, l.err
}

// GenerateContent builds the client if needed and forwards the call.
func (l *LazyModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m, err := l.get()
	if err != nil {
		return nil, err
	}
	return m.GenerateContent(ctx, messages, options...)
}

// Call builds the client if needed and forwards the call.
func (l *LazyModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	m, err := l.get()
	if err != nil {
		return "", err
	}
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}
