// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout classifies reconstructed section text into typed blocks
// and interleaves figures at their first citation. Output is a display/
// export artifact recomputed on every call, never stored on the model.
package layout

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// BlockKind is the classification of one candidate text block.
type BlockKind string

const (
	KindHeading    BlockKind = "heading"
	KindSubHeading BlockKind = "sub_heading"
	KindEquation   BlockKind = "equation"
	KindTable      BlockKind = "table"
	KindParagraph  BlockKind = "paragraph"
	KindFigure     BlockKind = "figure"
)

var (
	// numberedHeadingRe matches top-level numbered headings: "3. Results".
	numberedHeadingRe = regexp.MustCompile(`^\d+\.\s+[A-Z]`)

	// multiLevelRe matches multi-level numbering: "3.2", "1.2.4".
	multiLevelRe = regexp.MustCompile(`^\d+(\.\d+)+`)

	// stripPolicy removes all markup for classification and word counting.
	stripPolicy = bluemonday.StrictPolicy()
)

// mathSymbols trigger equation classification.
const mathSymbols = "=≈≠≤≥±×÷"

// PlainText strips markup and entities from a block for classification.
func PlainText(s string) string {
	s = stripPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// Classify determines the block kind of one candidate block. Predicates are
// tried in a fixed precedence order, first match wins:
//
//  1. heading: plain text < 100 chars and either "N. Capital..." or
//     entirely uppercase/symbols
//  2. sub-heading: plain text < 100 chars and multi-level numbering
//  3. equation: plain length in [2,150), contains a math symbol, does
//     not start with Figure/Table, does not end with a period
//  4. table: block carries table markup
//  5. paragraph: everything else
//
// Heading precedence beats equation on purpose: a short uppercase numbered
// block is a heading even when it contains math symbols. The Figure/Table
// prefix test keeps caption lines out of the equation bucket.
func Classify(block string) BlockKind {
	plain := PlainText(block)

	if len(plain) < 100 && plain != "" {
		if numberedHeadingRe.MatchString(plain) || isAllCapsOrSymbols(plain) {
			return KindHeading
		}
		if multiLevelRe.MatchString(plain) {
			return KindSubHeading
		}
	}

	if isEquation(plain) {
		return KindEquation
	}

	if hasTableMarkup(block) {
		return KindTable
	}

	return KindParagraph
}

// isAllCapsOrSymbols reports whether plain contains at least one letter and
// no lowercase letters: "MATERIALS AND METHODS", "RESULTS".
func isAllCapsOrSymbols(plain string) bool {
	hasLetter := false
	for _, r := range plain {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func isEquation(plain string) bool {
	n := len([]rune(plain))
	if n < 2 || n >= 150 {
		return false
	}
	if !strings.ContainsAny(plain, mathSymbols) {
		return false
	}
	lower := strings.ToLower(plain)
	if strings.HasPrefix(lower, "figure") || strings.HasPrefix(lower, "table") {
		return false
	}
	if strings.HasSuffix(plain, ".") {
		return false
	}
	return true
}

// hasTableMarkup reports whether the raw block already carries table markup,
// either the [TABLE] markers the extraction prompt mandates or literal HTML.
func hasTableMarkup(block string) bool {
	lower := strings.ToLower(block)
	return strings.Contains(lower, "[table]") || strings.Contains(lower, "<table")
}
