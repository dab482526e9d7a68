// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// systemPrompt defines the recommendation task for the model.
const systemPrompt = `You are an expert in academic paper recommendation. Given the titles and abstracts of papers and the user's research interests, you decide whether each paper is high quality and interesting enough to recommend to researchers in the field. A paper is worth recommending if it is closely related to the user's research interests and presents novel ideas or clear advancements.`

// userPromptTmpl lists the interests and every candidate paper, then asks
// for a JSON array of recommendations.
var userPromptTmpl = template.Must(template.New("recommend").Parse(`Here are the papers and my research interests:
My research interests: {{.Interests}}
{{range .Papers}}
Paper ID: {{.ID}}
Title: {{.Title}}
Abstract: {{.Abstract}}
{{end}}
Which papers are worth recommending, which of my research interests does each belong to, and why do you recommend it?
Answer in JSON and do not add any other explanation.
Example output:
[
  {
    "paper_id": "2302.02342v1",
    "category": "RAG",
    "reason": "This paper introduces a novel approach to retrieval-augmented generation that significantly improves performance on several benchmarks and aligns with my interest in RAG."
  }
]
Remember the surrounding brackets [] and the quotes around each paper ID.
`))

// renderUserPrompt executes the user prompt template.
func renderUserPrompt(interests []string, papers []types.Paper) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Interests string
		Papers    []types.Paper
	}{
		Interests: strings.Join(interests, ", "),
		Papers:    papers,
	}
	if err := userPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
