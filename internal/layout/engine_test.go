// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"testing"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

func figureIDs(blocks []Block) []string {
	var ids []string
	for _, b := range blocks {
		if b.Kind == KindFigure {
			ids = append(ids, b.Figure.ID)
		}
	}
	return ids
}

func TestFlowPlacesFigureAtFirstCitation(t *testing.T) {
	doc := &types.Manuscript{
		Sections: []types.Section{
			{Heading: "1. Introduction", Content: "Setup shown in Figure 1.\n\nMore text."},
			{Heading: "2. Results", Content: "As Figure 1 already showed, and Figure 2 confirms."},
		},
		Figures: []types.Figure{
			{ID: "1", Caption: "Setup"},
			{ID: "2", Caption: "Confirmation"},
		},
	}

	blocks := Flow(doc)

	ids := figureIDs(blocks)
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "2" {
		t.Fatalf("figure ids = %v, want [1 2] each exactly once", ids)
	}

	// Figure 1 lands in section 0, right after its citing paragraph.
	for _, b := range blocks {
		if b.Kind == KindFigure && b.Figure.ID == "1" && b.SectionIndex != 0 {
			t.Errorf("figure 1 placed in section %d, want 0", b.SectionIndex)
		}
		if b.Kind == KindFigure && b.Figure.ID == "2" && b.SectionIndex != 1 {
			t.Errorf("figure 2 placed in section %d, want 1", b.SectionIndex)
		}
	}
}

func TestFlowFigureCitationVariants(t *testing.T) {
	doc := &types.Manuscript{
		Sections: []types.Section{
			{Heading: "Results", Content: "See Fig. 1 and fig 2 and FIGURE 3."},
		},
		Figures: []types.Figure{{ID: "1"}, {ID: "2"}, {ID: "3"}},
	}

	ids := figureIDs(Flow(doc))
	if len(ids) != 3 {
		t.Fatalf("ids = %v, want all citation spellings recognized", ids)
	}
}

func TestFlowUncitedFiguresTrail(t *testing.T) {
	doc := &types.Manuscript{
		Sections: []types.Section{
			{Heading: "Intro", Content: "No citations here."},
		},
		Figures: []types.Figure{{ID: "1"}, {ID: "2"}},
	}

	blocks := Flow(doc)
	ids := figureIDs(blocks)
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "2" {
		t.Fatalf("ids = %v, want uncited figures appended in order", ids)
	}
	for _, b := range blocks {
		if b.Kind == KindFigure && b.SectionIndex != -1 {
			t.Errorf("trailing figure has SectionIndex %d, want -1", b.SectionIndex)
		}
	}
}

func TestFlowCitationToMissingFigureIgnored(t *testing.T) {
	doc := &types.Manuscript{
		Sections: []types.Section{
			{Heading: "Intro", Content: "Figure 7 does not exist."},
		},
		Figures: []types.Figure{{ID: "1"}},
	}

	ids := figureIDs(Flow(doc))
	if len(ids) != 1 || ids[0] != "1" {
		t.Fatalf("ids = %v, missing-figure citations must not emit blocks", ids)
	}
}

func TestFlowSplitsParagraphMarkup(t *testing.T) {
	doc := &types.Manuscript{
		Sections: []types.Section{
			{Heading: "Intro", Content: "<p>First.</p><p>Second.</p>"},
		},
	}

	blocks := Flow(doc)
	// 1 heading + 2 paragraphs.
	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(blocks))
	}
	if blocks[1].Text != "First." || blocks[2].Text != "Second." {
		t.Errorf("paragraphs = %q, %q", blocks[1].Text, blocks[2].Text)
	}
}

func TestFlowClassifiesWithinSection(t *testing.T) {
	doc := &types.Manuscript{
		Sections: []types.Section{
			{
				Heading: "3. Results",
				Content: "3.1. Yield\n\ny = 2x + 1\n\n[TABLE]\nA | B\n[/TABLE]\n\nPlain prose follows.",
			},
		},
	}

	blocks := Flow(doc)
	kinds := make([]BlockKind, len(blocks))
	for i, b := range blocks {
		kinds[i] = b.Kind
	}

	want := []BlockKind{KindHeading, KindSubHeading, KindEquation, KindTable, KindParagraph}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("block %d = %q, want %q", i, kinds[i], want[i])
		}
	}
}
