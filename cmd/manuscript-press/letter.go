// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-press/internal/export"
	"github.com/pdiddy/manuscript-press/internal/manuscript"
)

var letterCmd = &cobra.Command{
	Use:   "letter",
	Short: "Generate the Letter of Acceptance for the structured manuscript",
	Long: `Letter renders an acceptance letter on the journal letterhead, addressed
to the corresponding author, and prints it to PDF in the output
directory.`,
	RunE: runLetter,
}

func init() {
	letterCmd.Flags().String("output-dir", "", "output directory (default output)")

	rootCmd.AddCommand(letterCmd)
}

func runLetter(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.Export.OutputDir = dir
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "output"
	}

	doc, err := manuscript.Load(workPath(cmd, manuscriptFile))
	if err != nil {
		return fmt.Errorf("no structured manuscript (run structure first): %w", err)
	}

	html, err := export.RenderLetter(doc, cfg.Journal, time.Now())
	if err != nil {
		return err
	}

	out := filepath.Join(cfg.Export.OutputDir, "acceptance-letter.pdf")
	writer := export.NewPDFWriter(cfg.Export)
	if err := writer.Write(cmd.Context(), html, out); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", out)
	return nil
}
