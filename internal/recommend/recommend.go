// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend asks a language model which fetched papers match the
// user's research interests and groups its answer by category.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// record is one element of the model's JSON array. All three fields are
// required; an element missing any of them is dropped.
type record struct {
	PaperID  string `json:"paper_id" validate:"required"`
	Category string `json:"category" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

// Engine builds the prompt, calls the model once, and parses the reply.
type Engine struct {
	model     llms.Model
	interests []string
	validate  *validator.Validate
	log       *slog.Logger
}

// NewEngine returns an Engine using model and the configured interests.
func NewEngine(model llms.Model, cfg types.AppConfig, log *slog.Logger) *Engine {
	return &Engine{
		model:     model,
		interests: cfg.ResearchInterests,
		validate:  validator.New(),
		log:       log,
	}
}

// Recommend returns the papers the model recommends, grouped by lower-cased
// category. Transport errors from the model are returned. A reply that is
// not a JSON array is logged and yields an empty result with a nil error.
func (e *Engine) Recommend(ctx context.Context, papers []types.Paper) (types.Recommendations, error) {
	var recs types.Recommendations
	if len(papers) == 0 {
		return recs, nil
	}

	prompt, err := renderUserPrompt(e.interests, papers)
	if err != nil {
		return recs, fmt.Errorf("rendering prompt: %w", err)
	}

	e.log.Info("generating recommendations", "papers", len(papers))
	resp, err := e.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return recs, fmt.Errorf("calling language model: %w", err)
	}

	text := ""
	if resp != nil && len(resp.Choices) > 0 && resp.Choices[0] != nil {
		text = resp.Choices[0].Content
	}
	e.log.Info("received response from language model", "response", text)

	return e.parse(text, papers), nil
}

// parse decodes the reply best-effort. Elements that do not decode, fail
// validation, or name an unknown paper are dropped.
func (e *Engine) parse(text string, papers []types.Paper) types.Recommendations {
	var recs types.Recommendations

	body := stripCodeFence(text)
	if body == "" {
		e.log.Error("language model returned an empty response")
		return recs
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(body), &elems); err != nil {
		e.log.Error("failed to decode recommendations from language model response", "error", err)
		return recs
	}

	byID := make(map[string]types.Paper, len(papers))
	for _, p := range papers {
		byID[p.ID] = p
	}

	for i, raw := range elems {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			e.log.Warn("dropping malformed recommendation", "index", i, "error", err)
			continue
		}
		r.PaperID = strings.TrimSpace(r.PaperID)
		r.Category = strings.ToLower(strings.TrimSpace(r.Category))
		if err := e.validate.Struct(r); err != nil {
			e.log.Warn("dropping incomplete recommendation", "index", i, "error", err)
			continue
		}

		p, ok := byID[r.PaperID]
		if !ok {
			e.log.Debug("dropping recommendation for unknown paper", "paper_id", r.PaperID)
			continue
		}
		recs.Add(types.Recommendation{Paper: p, Category: r.Category, Reason: r.Reason})
	}
	return recs
}

// stripCodeFence removes a surrounding ``` or ```json fence, which chat
// models often add despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		// One-line fence: drop an info string such as "json" before the body.
		s = strings.TrimLeftFunc(s, isFenceTag)
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isFenceTag(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
