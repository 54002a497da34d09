// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-press/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Extract raw text and figures from a manuscript file",
	Long: `Ingest reads a manuscript file (DOCX, PDF, HTML, TXT, or MD), extracts
its plain text and embedded figures, and writes the source to the work
directory for the structure stage.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("figures-dir", "", "directory for extracted figure files (default figures)")
	ingestCmd.Flags().Int64("max-file-size", 0, "maximum input file size in bytes (default 32 MiB)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if dir, _ := cmd.Flags().GetString("figures-dir"); dir != "" {
		cfg.Ingest.FiguresDir = dir
	}
	if size, _ := cmd.Flags().GetInt64("max-file-size"); size > 0 {
		cfg.Ingest.MaxFileSize = size
	}

	src, err := ingest.New(cfg.Ingest).Extract(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := workPath(cmd, sourceFile)
	if err := ingest.Save(out, src); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Ingested %s: %d characters, %d figure(s) -> %s\n",
		args[0], len(src.RawText), len(src.Figures), out)
	for _, note := range src.Notes {
		fmt.Fprintf(os.Stderr, "note: %s\n", note)
	}
	return nil
}
