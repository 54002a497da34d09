// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// extractText ingests plain text or Markdown: line endings normalized,
// runs of blank lines collapsed to one paragraph break, no figures.
func extractText(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimRight(line, " \t"))
	}
	flush()

	return &Source{RawText: strings.Join(paragraphs, "\n\n")}, nil
}

func figure(id, fileURL string) types.Figure {
	return types.Figure{ID: id, FileURL: fileURL, Caption: "Figure " + id}
}
