// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-press/internal/layout"
	"github.com/pdiddy/manuscript-press/internal/manuscript"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Show the classified block flow of the structured manuscript",
	Long: `Layout classifies every content block (heading, sub-heading, equation,
table, paragraph) and places each figure after the first paragraph that
cites it. The resulting flow is printed one block per line, which is
useful for checking figure placement before export.`,
	RunE: runLayout,
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	doc, err := manuscript.Load(workPath(cmd, manuscriptFile))
	if err != nil {
		return fmt.Errorf("no structured manuscript (run structure first): %w", err)
	}

	for _, b := range layout.Flow(doc) {
		switch b.Kind {
		case layout.KindFigure:
			fmt.Fprintf(os.Stdout, "%-12s Figure %s: %s\n", b.Kind, b.Figure.ID, b.Figure.Caption)
		default:
			fmt.Fprintf(os.Stdout, "%-12s %s\n", b.Kind, firstLine(b.Text, 90))
		}
	}
	return nil
}

// firstLine truncates text to one display line.
func firstLine(s string, max int) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}
