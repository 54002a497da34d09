// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-press/internal/export"
	"github.com/pdiddy/manuscript-press/internal/layout"
	"github.com/pdiddy/manuscript-press/internal/manuscript"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the structured manuscript as PDF and/or DOCX",
	Long: `Export renders the manuscript through the journal layout (single-column
front matter, two-column body, placed figures) and writes the selected
formats to the output directory. PDF printing needs a headless Chrome,
either launched locally or reached via export.browser_url.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "pdf", "output format: pdf, docx, or both")
	exportCmd.Flags().String("output-dir", "", "output directory (default output)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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
	blocks := layout.Flow(doc)

	format, _ := cmd.Flags().GetString("format")
	wantPDF := format == "pdf" || format == "both"
	wantDOCX := format == "docx" || format == "both"
	if !wantPDF && !wantDOCX {
		return fmt.Errorf("unknown format %q (want pdf, docx, or both)", format)
	}

	base := filepath.Join(cfg.Export.OutputDir, "article")

	if wantPDF {
		html, err := export.RenderHTML(doc, blocks, cfg.Journal)
		if err != nil {
			return err
		}
		writer := export.NewPDFWriter(cfg.Export)
		if err := writer.Write(cmd.Context(), html, base+".pdf"); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s.pdf\n", base)
	}

	if wantDOCX {
		writer := export.NewDOCXWriter(cfg.Journal)
		if err := writer.Write(doc, blocks, base+".docx"); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s.docx\n", base)
	}
	return nil
}
