// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"testing"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

func TestNormalizeDropsNullStrings(t *testing.T) {
	raw := RawExtractionResult{
		Title:       "null",
		ArticleType: "  undefined ",
		DOI:         "10.1234/real",
		Sections:    []rawSection{{Header: "Intro", Body: "text"}},
	}
	m := raw.Normalize(nil, false)

	if m.Title != "" {
		t.Errorf("Title = %q, literal null must be dropped", m.Title)
	}
	if m.ArticleType != "" {
		t.Errorf("ArticleType = %q, literal undefined must be dropped", m.ArticleType)
	}
	if m.DOI != "10.1234/real" {
		t.Errorf("DOI = %q, real values must survive", m.DOI)
	}
}

func TestNormalizeDeduplicatesKeywords(t *testing.T) {
	raw := RawExtractionResult{
		Keywords: []string{"maize", "Maize", " yield ", "", "yield"},
	}
	m := raw.Normalize(nil, false)

	if len(m.Keywords) != 2 {
		t.Fatalf("Keywords = %v, want case-insensitive dedup to 2", m.Keywords)
	}
	if m.Keywords[0] != "maize" || m.Keywords[1] != "yield" {
		t.Errorf("Keywords = %v, first appearance wins", m.Keywords)
	}
}

func TestNormalizeSkipsEmptyAuthorsAndSections(t *testing.T) {
	raw := RawExtractionResult{
		Title: "T",
		Authors: []rawAuthor{
			{Name: "  "},
			{Name: "Ada Lovelace", Affiliation: " AE Ltd "},
		},
		Sections: []rawSection{
			{Header: "", Body: ""},
			{Header: "", Body: "orphan body"},
		},
	}
	m := raw.Normalize(nil, false)

	if len(m.Authors) != 1 || m.Authors[0].Affiliation != "AE Ltd" {
		t.Errorf("Authors = %+v", m.Authors)
	}
	if len(m.Sections) != 1 || m.Sections[0].Heading != PlaceholderHeading {
		t.Errorf("Sections = %+v, headerless body gets the placeholder heading", m.Sections)
	}
}

func TestNormalizeBackfill(t *testing.T) {
	raw := RawExtractionResult{}
	m := raw.Normalize([]types.Figure{{ID: "1"}}, true)

	if m.Title != PlaceholderTitle {
		t.Errorf("Title = %q", m.Title)
	}
	if len(m.Sections) != 1 || m.Sections[0].Content != PlaceholderBody {
		t.Errorf("Sections = %+v", m.Sections)
	}
	if len(m.Figures) != 1 {
		t.Errorf("Figures = %+v, ingested figures always attach", m.Figures)
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name string
		raw  RawExtractionResult
		want bool
	}{
		{"title and body", RawExtractionResult{Title: "T", Sections: []rawSection{{Body: "b"}}}, true},
		{"missing title", RawExtractionResult{Sections: []rawSection{{Body: "b"}}}, false},
		{"null title", RawExtractionResult{Title: "null", Sections: []rawSection{{Body: "b"}}}, false},
		{"no sections", RawExtractionResult{Title: "T"}, false},
		{"empty bodies only", RawExtractionResult{Title: "T", Sections: []rawSection{{Header: "h"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.raw.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}
