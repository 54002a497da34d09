// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manuscript

import (
	"strings"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// manualSectionHeading names the single body section produced by manual mode.
const manualSectionHeading = "Manuscript"

// Manual synthesizes a minimal Manuscript directly from pasted or extracted
// text without any AI call: the title is the first non-empty line, and the
// remaining text becomes one section with paragraphs joined by blank lines.
// This is the escape hatch offered after a failed extraction.
func Manual(raw string, figures []types.Figure) *types.Manuscript {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	title := ""
	rest := lines
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			title = strings.TrimSpace(line)
			rest = lines[i+1:]
			break
		}
	}
	if title == "" {
		title = "Untitled Manuscript"
	}

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}
	for _, line := range rest {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		current = append(current, trimmed)
	}
	flush()

	m := &types.Manuscript{
		Title:   title,
		Figures: figures,
	}
	if body := strings.Join(paragraphs, "\n\n"); body != "" {
		m.Sections = []types.Section{{Heading: manualSectionHeading, Content: body}}
	}
	return m
}
