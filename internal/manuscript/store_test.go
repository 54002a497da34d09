// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manuscript

import (
	"path/filepath"
	"testing"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	doc := &types.Manuscript{
		Title: "Original Title",
		Sections: []types.Section{
			{Heading: "Intro", Content: "text"},
		},
		Figures: []types.Figure{{ID: "1"}, {ID: "2"}, {ID: "3"}},
	}
	if err := s.Apply(ReplaceDocument{Doc: doc, Original: "raw text"}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStoreReplaceAndSnapshot(t *testing.T) {
	s := seededStore(t)

	snap := s.Snapshot()
	if snap.Title != "Original Title" {
		t.Errorf("Title = %q", snap.Title)
	}
	if s.Original() != "raw text" {
		t.Errorf("Original = %q", s.Original())
	}

	// Mutating the snapshot must not leak into the store.
	snap.Title = "mutated"
	snap.Figures[0].ID = "999"
	if got := s.Snapshot(); got.Title != "Original Title" || got.Figures[0].ID != "1" {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestStoreSetField(t *testing.T) {
	s := seededStore(t)

	if err := s.Apply(SetField{Field: "title", Value: "New Title"}); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Title; got != "New Title" {
		t.Errorf("Title = %q", got)
	}

	if err := s.Apply(SetField{Field: "nonexistent", Value: "x"}); err == nil {
		t.Error("want error for unknown field")
	}
}

func TestStoreUpdateSection(t *testing.T) {
	s := seededStore(t)

	if err := s.Apply(UpdateSection{Index: 0, Heading: "1. Introduction", Content: "edited"}); err != nil {
		t.Fatal(err)
	}
	sec := s.Snapshot().Sections[0]
	if sec.Heading != "1. Introduction" || sec.Content != "edited" {
		t.Errorf("section = %+v", sec)
	}

	if err := s.Apply(UpdateSection{Index: 5}); err == nil {
		t.Error("want error for out-of-range section")
	}
}

func TestStoreReorderFigure(t *testing.T) {
	s := seededStore(t)

	if err := s.Apply(ReorderFigure{From: 2, To: 0}); err != nil {
		t.Fatal(err)
	}
	figs := s.Snapshot().Figures
	want := []string{"3", "1", "2"}
	for i, id := range want {
		if figs[i].ID != id {
			t.Errorf("figure %d = %q, want %q (ids preserved, order changed)", i, figs[i].ID, id)
		}
	}
}

func TestStoreFailedOpLeavesSnapshot(t *testing.T) {
	s := seededStore(t)
	before := s.Snapshot()

	if err := s.Apply(ReorderFigure{From: 0, To: 99}); err == nil {
		t.Fatal("want error")
	}
	after := s.Snapshot()
	if after.Figures[0].ID != before.Figures[0].ID {
		t.Error("failed op mutated the snapshot")
	}
}

func TestStoreEmpty(t *testing.T) {
	s := NewStore()
	if s.Snapshot() != nil {
		t.Error("empty store should snapshot nil")
	}
	if err := s.Apply(SetField{Field: "title", Value: "x"}); err == nil {
		t.Error("want error when no document is loaded")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manuscript.yaml")
	doc := &types.Manuscript{
		Title:    "Round Trip",
		Authors:  []types.Author{{Name: "Ada", Affiliation: "AE Ltd", Corresponding: true}},
		Sections: []types.Section{{Heading: "Intro", Content: "body"}},
		Figures:  []types.Figure{{ID: "1", FileURL: "figures/figure-1.png", Caption: "Setup"}},
	}

	if err := Save(path, doc); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != doc.Title || len(got.Sections) != 1 || got.Figures[0].Caption != "Setup" {
		t.Errorf("loaded = %+v", got)
	}
	if !got.Authors[0].Corresponding {
		t.Error("corresponding flag lost in round trip")
	}
}
