// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manuscript

import (
	"fmt"
	"sync"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// Store holds the single live manuscript for an editing session as an
// immutable snapshot. Typed operations applied through Apply produce a new
// snapshot; readers (layout, validator, export) always see a consistent
// document. A new import replaces the whole document, never merges.
type Store struct {
	mu   sync.RWMutex
	doc  *types.Manuscript
	orig string // raw pre-extraction text kept for the integrity check
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Op is a typed update operation against the current snapshot. Ops mutate
// only the fresh copy handed to them.
type Op interface {
	apply(doc *types.Manuscript) error
}

// ReplaceDocument installs a new manuscript, replacing any prior instance.
type ReplaceDocument struct {
	Doc      *types.Manuscript
	Original string
}

func (op ReplaceDocument) apply(*types.Manuscript) error { return nil }

// SetField updates one scalar metadata field by name.
type SetField struct {
	Field string
	Value string
}

func (op SetField) apply(doc *types.Manuscript) error {
	switch op.Field {
	case "title":
		doc.Title = op.Value
	case "article_type":
		doc.ArticleType = op.Value
	case "abstract":
		doc.Abstract = op.Value
	case "doi":
		doc.DOI = op.Value
	case "volume":
		doc.Volume = op.Value
	case "issue":
		doc.Issue = op.Value
	case "year":
		doc.Year = op.Value
	case "pages":
		doc.Pages = op.Value
	case "received_date":
		doc.ReceivedDate = op.Value
	case "accepted_date":
		doc.AcceptedDate = op.Value
	case "published_date":
		doc.PublishedDate = op.Value
	case "logo_url":
		doc.LogoURL = op.Value
	default:
		return fmt.Errorf("unknown field %q", op.Field)
	}
	return nil
}

// UpdateSection replaces the heading and content of one section.
type UpdateSection struct {
	Index   int
	Heading string
	Content string
}

func (op UpdateSection) apply(doc *types.Manuscript) error {
	if op.Index < 0 || op.Index >= len(doc.Sections) {
		return fmt.Errorf("section index %d out of range [0,%d)", op.Index, len(doc.Sections))
	}
	doc.Sections[op.Index] = types.Section{Heading: op.Heading, Content: op.Content}
	return nil
}

// ReorderFigure moves the figure at From to position To, preserving ids.
type ReorderFigure struct {
	From int
	To   int
}

func (op ReorderFigure) apply(doc *types.Manuscript) error {
	n := len(doc.Figures)
	if op.From < 0 || op.From >= n || op.To < 0 || op.To >= n {
		return fmt.Errorf("figure move %d->%d out of range [0,%d)", op.From, op.To, n)
	}
	f := doc.Figures[op.From]
	doc.Figures = append(doc.Figures[:op.From], doc.Figures[op.From+1:]...)
	doc.Figures = append(doc.Figures[:op.To], append([]types.Figure{f}, doc.Figures[op.To:]...)...)
	return nil
}

// Apply runs one operation and installs the resulting snapshot.
func (s *Store) Apply(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rep, ok := op.(ReplaceDocument); ok {
		if rep.Doc == nil {
			return fmt.Errorf("replace with nil document")
		}
		s.doc = clone(rep.Doc)
		s.orig = rep.Original
		return nil
	}

	if s.doc == nil {
		return fmt.Errorf("no document loaded")
	}
	next := clone(s.doc)
	if err := op.apply(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// Snapshot returns the current document copy, or nil when none is loaded.
// Mutating the returned value does not affect the store.
func (s *Store) Snapshot() *types.Manuscript {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil
	}
	return clone(s.doc)
}

// Original returns the raw pre-extraction text of the current document.
func (s *Store) Original() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orig
}

// clone deep-copies a manuscript. Slices of structs and strings are copied;
// there are no nested pointers in the model.
func clone(m *types.Manuscript) *types.Manuscript {
	out := *m
	out.Authors = append([]types.Author(nil), m.Authors...)
	out.Keywords = append([]string(nil), m.Keywords...)
	out.Sections = append([]types.Section(nil), m.Sections...)
	out.References = append([]string(nil), m.References...)
	out.Figures = append([]types.Figure(nil), m.Figures...)
	return &out
}
