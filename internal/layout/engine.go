// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"regexp"
	"strings"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// figureCiteRe matches inline figure citations: "Figure 3", "Fig. 3", "Fig 3".
var figureCiteRe = regexp.MustCompile(`(?i)(Figure|Fig\.?)\s*(\d+)`)

// paragraphTagRe splits content that already carries <p> markup.
var paragraphTagRe = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)

// blankRunRe splits plain content on blank-line runs.
var blankRunRe = regexp.MustCompile(`\n\s*\n`)

// Block is one rendering-ready unit of a flowed document.
type Block struct {
	// Kind classifies the block.
	Kind BlockKind

	// Text is the block's content: raw (markup preserved) for tables and
	// paragraphs, plain for headings and equations. Empty for figures.
	Text string

	// Figure is set for KindFigure blocks.
	Figure *types.Figure

	// SectionIndex is the index of the originating section, or -1 for the
	// trailing unplaced-figures blocks.
	SectionIndex int
}

// Flow classifies every section of the document into typed blocks and
// places each figure immediately after the block containing its first
// citation. The placed-id set is threaded across sections in document
// order, so a figure cited in several sections appears exactly once, at its
// first citation. Figures never cited are appended at the end in original
// order.
func Flow(doc *types.Manuscript) []Block {
	var blocks []Block
	placed := make(map[string]bool)

	for si := range doc.Sections {
		sec := &doc.Sections[si]

		if h := strings.TrimSpace(sec.Heading); h != "" {
			blocks = append(blocks, Block{Kind: KindHeading, Text: h, SectionIndex: si})
			blocks = appendFigures(blocks, h, doc, placed, si)
		}

		for _, candidate := range splitBlocks(sec.Content) {
			kind := Classify(candidate)
			text := candidate
			if kind == KindHeading || kind == KindSubHeading || kind == KindEquation {
				text = PlainText(candidate)
			}
			blocks = append(blocks, Block{Kind: kind, Text: text, SectionIndex: si})
			blocks = appendFigures(blocks, PlainText(candidate), doc, placed, si)
		}
	}

	// Figures never cited trail the document in original order.
	for i := range doc.Figures {
		f := doc.Figures[i]
		if !placed[f.ID] {
			blocks = append(blocks, Block{Kind: KindFigure, Figure: &f, SectionIndex: -1})
			placed[f.ID] = true
		}
	}

	return blocks
}

// appendFigures scans plain block text for figure citations left to right
// and emits a figure block for each first-seen id that exists in the
// manuscript. Ids already placed earlier in the document are skipped.
func appendFigures(blocks []Block, plain string, doc *types.Manuscript, placed map[string]bool, si int) []Block {
	for _, match := range figureCiteRe.FindAllStringSubmatch(plain, -1) {
		id := match[2]
		if placed[id] {
			continue
		}
		fig := doc.FigureByID(id)
		if fig == nil {
			continue
		}
		f := *fig
		blocks = append(blocks, Block{Kind: KindFigure, Figure: &f, SectionIndex: si})
		placed[id] = true
	}
	return blocks
}

// splitBlocks cuts section content into candidate blocks: on <p> markup
// when present, otherwise on blank-line runs.
func splitBlocks(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	var parts []string
	if paragraphTagRe.MatchString(content) {
		for _, m := range paragraphTagRe.FindAllStringSubmatch(content, -1) {
			if p := strings.TrimSpace(m[1]); p != "" {
				parts = append(parts, p)
			}
		}
		return parts
	}

	for _, p := range blankRunRe.Split(content, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
