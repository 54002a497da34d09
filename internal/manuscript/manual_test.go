// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manuscript

import (
	"testing"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

func TestManual(t *testing.T) {
	raw := "Effects of X\r\n\r\nFirst paragraph line one.\r\nline two.\r\n\r\nSecond paragraph."

	m := Manual(raw, []types.Figure{{ID: "1"}})

	if m.Title != "Effects of X" {
		t.Errorf("Title = %q", m.Title)
	}
	if len(m.Sections) != 1 || m.Sections[0].Heading != "Manuscript" {
		t.Fatalf("Sections = %+v", m.Sections)
	}
	want := "First paragraph line one. line two.\n\nSecond paragraph."
	if m.Sections[0].Content != want {
		t.Errorf("Content = %q, want %q", m.Sections[0].Content, want)
	}
	if len(m.Figures) != 1 {
		t.Errorf("Figures = %+v", m.Figures)
	}
}

func TestManualEmptyInput(t *testing.T) {
	m := Manual("", nil)
	if m.Title != "Untitled Manuscript" {
		t.Errorf("Title = %q", m.Title)
	}
	if len(m.Sections) != 0 {
		t.Errorf("Sections = %+v, want none for empty body", m.Sections)
	}
}

func TestManualTitleOnly(t *testing.T) {
	m := Manual("\n\nJust a Title\n\n", nil)
	if m.Title != "Just a Title" {
		t.Errorf("Title = %q", m.Title)
	}
	if len(m.Sections) != 0 {
		t.Errorf("Sections = %+v", m.Sections)
	}
}

func TestIndexAffiliations(t *testing.T) {
	authors := []types.Author{
		{Name: "A", Affiliation: "University of X"},
		{Name: "B", Affiliation: "Institute Y"},
		{Name: "C", Affiliation: "University of X"},
		{Name: "D"},
		{Name: "E", Affiliation: "university of x"}, // different case: distinct
	}

	idx := IndexAffiliations(authors)

	wantList := []string{"University of X", "Institute Y", "university of x"}
	if len(idx.Affiliations) != len(wantList) {
		t.Fatalf("Affiliations = %v, want %v", idx.Affiliations, wantList)
	}
	for i, want := range wantList {
		if idx.Affiliations[i] != want {
			t.Errorf("Affiliations[%d] = %q, want %q", i, idx.Affiliations[i], want)
		}
	}

	wantBy := []int{0, 1, 0, -1, 2}
	for i, want := range wantBy {
		if idx.ByAuthor[i] != want {
			t.Errorf("ByAuthor[%d] = %d, want %d", i, idx.ByAuthor[i], want)
		}
	}
}

func TestIndexAffiliationsEmpty(t *testing.T) {
	idx := IndexAffiliations(nil)
	if len(idx.Affiliations) != 0 || len(idx.ByAuthor) != 0 {
		t.Errorf("unexpected index for no authors: %+v", idx)
	}
}
