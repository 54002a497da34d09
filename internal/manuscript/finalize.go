// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manuscript holds operations on the structured manuscript model:
// finalization of publication metadata, the manual no-AI entry path,
// affiliation deduplication, and the snapshot document store.
package manuscript

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// defaultLogoURL is the generated masthead reference used when the journal
// config does not supply one.
const defaultLogoURL = "assets/journal-logo.svg"

// Finalize fills every publication-metadata field the extraction schema does
// not own: DOI placeholder, volume/issue defaults, dates formatted from now,
// and the masthead logo. It is deterministic given now and never overwrites
// a field extraction populated: a detected DOI survives as long as it is
// non-empty and not a literal "null". Title casing is normalized.
func Finalize(m *types.Manuscript, journal types.JournalConfig, now time.Time) {
	if m.Title != "" {
		m.Title = NormalizeTitle(m.Title)
	}
	if m.ArticleType == "" {
		m.ArticleType = "Original Research Article"
	}
	if len(m.Authors) == 0 {
		m.Authors = []types.Author{{Name: "Unknown Author"}}
	}

	if !populated(m.DOI) {
		prefix := journal.DOIPrefix
		if prefix == "" {
			prefix = "10.5555"
		}
		m.DOI = fmt.Sprintf("%s/%s.%06d", prefix, now.Format("2006"), now.YearDay()*1000+now.Hour()*10+now.Minute()%10)
	}
	if !populated(m.Volume) {
		if journal.Volume != "" {
			m.Volume = journal.Volume
		} else {
			m.Volume = "1"
		}
	}
	if !populated(m.Issue) {
		if journal.Issue != "" {
			m.Issue = journal.Issue
		} else {
			m.Issue = "1"
		}
	}
	if !populated(m.Year) {
		m.Year = now.Format("2006")
	}
	if !populated(m.Pages) {
		m.Pages = "1-12"
	}

	date := now.Format("02 January 2006")
	if !populated(m.ReceivedDate) {
		m.ReceivedDate = date
	}
	if !populated(m.AcceptedDate) {
		m.AcceptedDate = date
	}
	if !populated(m.PublishedDate) {
		m.PublishedDate = date
	}

	if !populated(m.LogoURL) {
		if journal.LogoURL != "" {
			m.LogoURL = journal.LogoURL
		} else {
			m.LogoURL = defaultLogoURL
		}
	}
}

// populated reports whether an extraction-era string field carries a real
// value. Empty and literal "null" count as unpopulated.
func populated(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, "null")
}

// titleMinorWords stay lowercase in title case unless they open the title.
var titleMinorWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "but": true,
	"or": true, "nor": true, "of": true, "on": true, "in": true,
	"to": true, "for": true, "with": true, "at": true, "by": true,
	"from": true, "as": true,
}

// NormalizeTitle applies journal title casing: every word capitalized except
// interior minor words. Words containing interior uppercase (acronyms,
// chemical formulas) are left untouched.
func NormalizeTitle(title string) string {
	words := strings.Fields(strings.TrimSpace(title))
	for i, w := range words {
		if hasInteriorUpper(w) {
			continue
		}
		lower := strings.ToLower(w)
		if i > 0 && titleMinorWords[strings.Trim(lower, ".,:;")] {
			words[i] = lower
			continue
		}
		words[i] = capitalize(lower)
	}
	return strings.Join(words, " ")
}

func hasInteriorUpper(w string) bool {
	for i, r := range w {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func capitalize(w string) string {
	for i, r := range w {
		if unicode.IsLetter(r) {
			return w[:i] + string(unicode.ToUpper(r)) + w[i+len(string(r)):]
		}
	}
	return w
}
