// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"strings"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// Placeholder text backfilled into required fields under the placeholder
// recovery policy.
const (
	PlaceholderTitle   = "Untitled (Recovered)"
	PlaceholderHeading = "Content"
	PlaceholderBody    = "Partial Content"
)

// RawExtractionResult mirrors the backend's response object with every field
// optional. The backend's JSON is never trusted to match the strict model;
// Normalize converts it totally, dropping nothing and inventing nothing
// beyond policy-gated placeholders.
type RawExtractionResult struct {
	Title       string       `json:"title"`
	ArticleType string       `json:"article_type"`
	DOI         string       `json:"doi"`
	Abstract    string       `json:"abstract"`
	Keywords    []string     `json:"keywords"`
	Authors     []rawAuthor  `json:"authors"`
	Sections    []rawSection `json:"content_sections"`
	References  []string     `json:"references"`
}

type rawAuthor struct {
	Name          string `json:"name"`
	Affiliation   string `json:"affiliation"`
	Email         string `json:"email"`
	Corresponding bool   `json:"is_corresponding"`
}

type rawSection struct {
	Header string `json:"header"`
	Body   string `json:"body"`
}

// Complete reports whether the response satisfies the required schema
// fields: a non-empty title and at least one section with content.
func (r *RawExtractionResult) Complete() bool {
	if cleanField(r.Title) == "" {
		return false
	}
	for _, s := range r.Sections {
		if strings.TrimSpace(s.Body) != "" {
			return true
		}
	}
	return false
}

// Normalize converts the raw response into a strict Manuscript. When
// backfill is true, missing required fields are replaced with placeholders
// (recovered-output path); otherwise they are left empty for the caller to
// reject. Literal "null" strings, a habit of some models for absent fields,
// are treated as unpopulated.
func (r *RawExtractionResult) Normalize(figures []types.Figure, backfill bool) *types.Manuscript {
	m := &types.Manuscript{
		Title:       cleanField(r.Title),
		ArticleType: cleanField(r.ArticleType),
		DOI:         cleanField(r.DOI),
		Abstract:    strings.TrimSpace(r.Abstract),
		Figures:     figures,
	}

	for _, k := range r.Keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if !containsFold(m.Keywords, k) {
			m.Keywords = append(m.Keywords, k)
		}
	}

	for _, a := range r.Authors {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		m.Authors = append(m.Authors, types.Author{
			Name:          name,
			Affiliation:   strings.TrimSpace(a.Affiliation),
			Email:         strings.TrimSpace(a.Email),
			Corresponding: a.Corresponding,
		})
	}

	for _, s := range r.Sections {
		header := strings.TrimSpace(s.Header)
		body := strings.TrimSpace(s.Body)
		if header == "" && body == "" {
			continue
		}
		if header == "" {
			header = PlaceholderHeading
		}
		m.Sections = append(m.Sections, types.Section{Heading: header, Content: body})
	}

	for _, ref := range r.References {
		if ref = strings.TrimSpace(ref); ref != "" {
			m.References = append(m.References, ref)
		}
	}

	if backfill {
		if m.Title == "" {
			m.Title = PlaceholderTitle
		}
		if len(m.Sections) == 0 {
			m.Sections = []types.Section{{Heading: PlaceholderHeading, Content: PlaceholderBody}}
		}
	}

	return m
}

// cleanField trims a string field and discards literal "null"/"undefined".
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "null", "undefined":
		return ""
	}
	return s
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
