// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt composes the instruction block and output schema sent to
// the generative backend for manuscript structuring. Build is a pure
// function of (raw text, figure manifest, article type); it performs no I/O.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// structuringTmpl is the instruction block for the structuring call. The
// fidelity rules are hard constraints: the backend must reproduce the
// manuscript, not edit it.
var structuringTmpl = template.Must(template.New("structuring").Parse(`You are a typesetting assistant for an academic journal. Segment the manuscript below into its structural parts and return them as a single JSON object.

Hard constraints, violating any of these makes the output unusable:
1. Copy all body text VERBATIM. Do not summarize, shorten, or paraphrase anything.
2. Do not correct grammar, spelling, or wording. Reproduce the author's text exactly.
3. Preserve paragraph boundaries: separate consecutive paragraphs inside a section body with a blank line (two newline characters).
4. When you encounter tabular data, reproduce it inside [TABLE]...[/TABLE] markers, one row per line, cells separated by " | ". Never flatten a table into prose.
5. Wrap every mathematical expression or equation in $...$ delimiters, on its own line when it stands alone in the source.
6. Remove only obvious page furniture: page numbers, running headers and footers, and repeated journal mastheads. Remove nothing else.
7. List every bibliography entry as a separate string in "references", in the original order, verbatim.
{{if .Figures}}8. The manuscript has {{len .Figures}} uploaded figure(s), numbered {{.FigureIDs}}. Immediately after the first paragraph that cites figure N (e.g. "Figure 2" or "Fig. 2"), insert a line containing exactly [FIGURE:N] on its own line. Use each marker at most once.
{{end}}
Return ONLY the JSON object, with these fields:
{{.Schema}}

Article type hint: {{.ArticleType}}

Manuscript text:
---
{{.Raw}}
---
`))

// Prompt is the rendered instruction block plus the schema description that
// accompanies it on the wire.
type Prompt struct {
	// Text is the full instruction block including the manuscript.
	Text string

	// Schema describes the required response object, suitable for backends
	// that accept a response-schema parameter.
	Schema Schema
}

// Schema describes the strict output object expected from the backend.
// It doubles as documentation inside the prompt and as the response_schema
// payload for backends that enforce one.
type Schema struct {
	Fields []SchemaField
}

// SchemaField is one top-level field of the response object.
type SchemaField struct {
	Name     string
	Type     string
	Required bool
}

// ResponseSchema returns the schema for the structuring response.
func ResponseSchema() Schema {
	return Schema{Fields: []SchemaField{
		{Name: "title", Type: "string", Required: true},
		{Name: "article_type", Type: "string", Required: false},
		{Name: "doi", Type: "string", Required: false},
		{Name: "abstract", Type: "string", Required: false},
		{Name: "keywords", Type: "list<string>", Required: false},
		{Name: "authors", Type: "list<{name, affiliation, email?, is_corresponding?}>", Required: false},
		{Name: "content_sections", Type: "list<{header, body}>", Required: true},
		{Name: "references", Type: "list<string>", Required: false},
	}}
}

// Describe renders the schema as an indented field list for the prompt body.
func (s Schema) Describe() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, f := range s.Fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "  %q: %s (%s)\n", f.Name, f.Type, req)
	}
	sb.WriteString("}")
	return sb.String()
}

// Build renders the structuring prompt for the given raw manuscript text,
// figure manifest, and article type. Figure instructions are emitted only
// when the manifest is non-empty.
func Build(raw string, figures []types.Figure, articleType string) (Prompt, error) {
	if strings.TrimSpace(raw) == "" {
		return Prompt{}, fmt.Errorf("empty manuscript text")
	}
	if articleType == "" {
		articleType = "Original Research Article"
	}

	schema := ResponseSchema()

	ids := make([]string, len(figures))
	for i, f := range figures {
		ids[i] = f.ID
	}

	var buf bytes.Buffer
	err := structuringTmpl.Execute(&buf, struct {
		Raw         string
		ArticleType string
		Figures     []types.Figure
		FigureIDs   string
		Schema      string
	}{
		Raw:         raw,
		ArticleType: articleType,
		Figures:     figures,
		FigureIDs:   strings.Join(ids, ", "),
		Schema:      schema.Describe(),
	})
	if err != nil {
		return Prompt{}, fmt.Errorf("rendering structuring prompt: %w", err)
	}

	return Prompt{Text: buf.String(), Schema: schema}, nil
}
