// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ValidationStatus grades the integrity comparison between the original
// input text and the reconstructed manuscript.
type ValidationStatus string

const (
	ValidationSuccess ValidationStatus = "success"
	ValidationWarning ValidationStatus = "warning"
	ValidationDanger  ValidationStatus = "danger"
)

// ValidationReport is the result of comparing pre-extraction raw text
// against the finalized manuscript. It is a heuristic trust signal for the
// human editor, never a hard gate: export is allowed regardless of status.
type ValidationReport struct {
	// OriginalWordCount is the normalized token count of the raw input.
	OriginalWordCount int `json:"original_word_count" yaml:"original_word_count"`

	// GeneratedWordCount is the normalized token count of the reconstruction.
	GeneratedWordCount int `json:"generated_word_count" yaml:"generated_word_count"`

	// CoveragePercent is the share of original tokens also present in the
	// generated text, rounded and clamped to [0,100]. Word-presence only:
	// order and repetition are ignored.
	CoveragePercent int `json:"coverage_percent" yaml:"coverage_percent"`

	// Status summarizes the report: success, warning, or danger.
	Status ValidationStatus `json:"status" yaml:"status"`

	// MissingSections lists IMRAD checklist entries with no matching heading.
	MissingSections []string `json:"missing_sections" yaml:"missing_sections"`

	// FormattingIssues lists detected corruption artifacts in order found.
	FormattingIssues []string `json:"formatting_issues" yaml:"formatting_issues"`
}
