// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-press/internal/server"
	"github.com/pdiddy/manuscript-press/internal/settings"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP for the editor UI",
	Long: `Serve starts the HTTP surface: upload, structuring, review edits,
validation, layout preview, and export, all against the single live
manuscript of the process.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8480)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	settingsStore, err := settings.NewStore(cfg.Settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: settings store unavailable: %v\n", err)
		settingsStore = nil
	} else {
		defer settingsStore.Close()
	}

	client := newExtractionClient(&cfg)
	return server.New(cfg, logger, client, settingsStore).ListenAndServe(cmd.Context())
}
