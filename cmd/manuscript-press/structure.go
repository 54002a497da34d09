// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-press/internal/ingest"
	"github.com/pdiddy/manuscript-press/internal/manuscript"
	"github.com/pdiddy/manuscript-press/internal/prompt"
	"github.com/pdiddy/manuscript-press/pkg/types"
)

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Convert ingested text into a structured manuscript",
	Long: `Structure runs the AI extraction over the ingested source: the candidate
models are tried in order with retries and structural repair of truncated
responses. --manual skips the AI entirely and wraps the raw text in a
single-section document for hand editing.

The finalized manuscript is written to the work directory.`,
	RunE: runStructure,
}

func init() {
	structureCmd.Flags().String("article-type", "", `article type label (e.g. "Original Research")`)
	structureCmd.Flags().Bool("manual", false, "skip AI extraction and build a single-section document")
	structureCmd.Flags().String("model", "", "try this Gemini model first, before the configured candidates")
	structureCmd.Flags().String("recovery", "", "recovery policy for incomplete repaired output: placeholder or fail")

	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	src, err := ingest.Load(workPath(cmd, sourceFile))
	if err != nil {
		return fmt.Errorf("no ingested source (run ingest first): %w", err)
	}

	articleType, _ := cmd.Flags().GetString("article-type")

	var doc *types.Manuscript
	manual, _ := cmd.Flags().GetBool("manual")
	if manual {
		doc = manuscript.Manual(src.RawText, src.Figures)
	} else {
		if model, _ := cmd.Flags().GetString("model"); model != "" {
			cfg.Extraction.Models = append(
				[]types.ModelCandidate{{Provider: "gemini", Name: model}},
				cfg.Extraction.Models...)
		}
		if recovery, _ := cmd.Flags().GetString("recovery"); recovery != "" {
			cfg.Extraction.Recovery = types.RecoveryPolicy(recovery)
		}

		p, err := prompt.Build(src.RawText, src.Figures, articleType)
		if err != nil {
			return err
		}

		client := newExtractionClient(&cfg)
		result, err := client.Run(cmd.Context(), p, src.Figures, os.Stderr)
		if err != nil {
			return err
		}
		doc = result.Manuscript
		fmt.Fprintf(os.Stdout, "Structured by %s in %d attempt(s)\n", result.Model, len(result.Attempts))
		if result.Recovered {
			fmt.Fprintln(os.Stderr, "note: response needed structural repair; review the document before export")
		}
	}

	if articleType != "" {
		doc.ArticleType = articleType
	}
	manuscript.Finalize(doc, cfg.Journal, time.Now())

	out := workPath(cmd, manuscriptFile)
	if err := manuscript.Save(out, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Manuscript: %q, %d section(s), %d figure(s) -> %s\n",
		doc.Title, len(doc.Sections), len(doc.Figures), out)
	return nil
}
