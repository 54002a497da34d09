// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate compares the pre-extraction raw text against the
// reconstructed manuscript and produces a coverage report. The report is a
// heuristic trust signal for the human editor; a bad score is data, not an
// error, and never blocks export.
package validate

import (
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// imradChecklist is the canonical completeness checklist. A section heading
// containing the keyword (case-insensitive) satisfies the entry.
var imradChecklist = []string{"Introduction", "Method", "Result", "Discussion", "Conclusion"}

// placeholderTokens are known pipeline markers stripped before counting.
var placeholderTokens = []string{
	"[FIGURE REMOVED]",
	"[TABLE]",
	"[/TABLE]",
}

// brokenCrossRefMarker is the artifact word processors leave behind for
// broken field cross-references.
const brokenCrossRefMarker = "Error! Reference source not found"

// bracketArtifactRe matches leftover editorial placeholders like
// "[insert table 2 here]" or "[figure 3 about here]".
var bracketArtifactRe = regexp.MustCompile(`(?i)\[\s*(insert|figure|table)[^\]\n]*\]`)

var (
	stripPolicy = bluemonday.StrictPolicy()
	punctRe     = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	figMarkerRe = regexp.MustCompile(`(?i)\[figure:\d+\]`)
)

// minTokenLen drops short function words from both token sets.
const minTokenLen = 2

// Tokenize normalizes text into comparison tokens: markup and entities
// stripped, placeholder markers removed, punctuation dropped, lowercased,
// whitespace-split, tokens of length <= 2 discarded. Both sides of the
// comparison run through this identically.
func Tokenize(text string) []string {
	text = stripPolicy.Sanitize(text)
	text = html.UnescapeString(text)
	for _, p := range placeholderTokens {
		text = strings.ReplaceAll(text, p, " ")
		text = strings.ReplaceAll(text, strings.ToLower(p), " ")
	}
	text = figMarkerRe.ReplaceAllString(text, " ")
	text = punctRe.ReplaceAllString(text, " ")
	text = strings.ToLower(text)

	var tokens []string
	for _, t := range strings.Fields(text) {
		if len([]rune(t)) > minTokenLen {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Compare produces a ValidationReport for the original raw text against the
// reconstructed manuscript. Coverage is word-presence only: order and
// repetition are ignored, a deliberately cheap fidelity proxy.
func Compare(original string, doc *types.Manuscript) types.ValidationReport {
	origTokens := Tokenize(original)
	genTokens := Tokenize(doc.WordText())

	report := types.ValidationReport{
		OriginalWordCount:  len(origTokens),
		GeneratedWordCount: len(genTokens),
	}

	genSet := make(map[string]bool, len(genTokens))
	for _, t := range genTokens {
		genSet[t] = true
	}

	if len(origTokens) > 0 {
		found := 0
		for _, t := range origTokens {
			if genSet[t] {
				found++
			}
		}
		pct := int(math.Round(100 * float64(found) / float64(len(origTokens))))
		report.CoveragePercent = clamp(pct, 0, 100)
	} else {
		report.CoveragePercent = 100
	}

	report.MissingSections = missingSections(doc)
	report.FormattingIssues = formattingIssues(doc)
	report.Status = grade(report)
	return report
}

// missingSections returns the IMRAD checklist entries with no matching
// section heading (case-insensitive substring match).
func missingSections(doc *types.Manuscript) []string {
	var missing []string
	for _, want := range imradChecklist {
		found := false
		for _, sec := range doc.Sections {
			if strings.Contains(strings.ToLower(sec.Heading), strings.ToLower(want)) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, want)
		}
	}
	return missing
}

// formattingIssues checks the reconstructed text for known corruption
// artifacts, in a fixed order.
func formattingIssues(doc *types.Manuscript) []string {
	text := doc.WordText()
	var issues []string
	if strings.Contains(text, brokenCrossRefMarker) {
		issues = append(issues, "broken cross-reference: \""+brokenCrossRefMarker+"\"")
	}
	for _, m := range bracketArtifactRe.FindAllString(text, -1) {
		issues = append(issues, "placeholder artifact: \""+m+"\"")
	}
	return issues
}

// grade derives the overall status from the report's numbers:
// danger when coverage < 80, generated < 0.7x original, or more than two
// IMRAD sections missing; warning when coverage < 95, generated < 0.9x
// original, any missing section, or any formatting issue; success otherwise.
func grade(r types.ValidationReport) types.ValidationStatus {
	orig := float64(r.OriginalWordCount)
	gen := float64(r.GeneratedWordCount)

	switch {
	case r.CoveragePercent < 80,
		orig > 0 && gen < 0.7*orig,
		len(r.MissingSections) > 2:
		return types.ValidationDanger
	case r.CoveragePercent < 95,
		orig > 0 && gen < 0.9*orig,
		len(r.MissingSections) > 0,
		len(r.FormattingIssues) > 0:
		return types.ValidationWarning
	default:
		return types.ValidationSuccess
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
