// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-press/internal/ingest"
	"github.com/pdiddy/manuscript-press/internal/manuscript"
	"github.com/pdiddy/manuscript-press/internal/validate"
	"github.com/pdiddy/manuscript-press/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the structured manuscript against the original text",
	Long: `Validate compares the structured manuscript with the ingested source:
word coverage, word counts, required-section checklist, and formatting
artifacts. The exit status reflects the grade: success and warning exit
zero, danger exits non-zero.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	src, err := ingest.Load(workPath(cmd, sourceFile))
	if err != nil {
		return fmt.Errorf("no ingested source (run ingest first): %w", err)
	}
	doc, err := manuscript.Load(workPath(cmd, manuscriptFile))
	if err != nil {
		return fmt.Errorf("no structured manuscript (run structure first): %w", err)
	}

	report := validate.Compare(src.RawText, doc)

	fmt.Fprintf(os.Stdout, "Status:        %s\n", report.Status)
	fmt.Fprintf(os.Stdout, "Word coverage: %d%%\n", report.CoveragePercent)
	fmt.Fprintf(os.Stdout, "Word counts:   %d original, %d structured\n",
		report.OriginalWordCount, report.GeneratedWordCount)
	for _, s := range report.MissingSections {
		fmt.Fprintf(os.Stdout, "Missing:       %s\n", s)
	}
	for _, issue := range report.FormattingIssues {
		fmt.Fprintf(os.Stdout, "Issue:         %s\n", issue)
	}

	if report.Status == types.ValidationDanger {
		return fmt.Errorf("validation failed: substantial content loss or structural gaps")
	}
	return nil
}
