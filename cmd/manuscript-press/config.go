// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/manuscript-press/internal/extraction"
	"github.com/pdiddy/manuscript-press/internal/settings"
	"github.com/pdiddy/manuscript-press/pkg/types"
)

const defaultUserAgent = "manuscript-press/0.1"

// loadConfig assembles the pipeline configuration from the config file and
// environment. Per-command flags layer on top in the command handlers.
func loadConfig() types.PipelineConfig {
	var cfg types.PipelineConfig

	cfg.Ingest.MaxFileSize = viper.GetInt64("ingest.max_file_size")
	cfg.Ingest.FiguresDir = viper.GetString("ingest.figures_dir")

	cfg.Extraction.Timeout = viper.GetDuration("extraction.timeout")
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 120 * time.Second
	}
	cfg.Extraction.UserAgent = defaultUserAgent
	cfg.Extraction.MaxAttemptsPerModel = viper.GetInt("extraction.max_attempts_per_model")
	cfg.Extraction.Temperature = viper.GetFloat64("extraction.temperature")
	cfg.Extraction.MaxOutputTokens = viper.GetInt("extraction.max_output_tokens")
	cfg.Extraction.Recovery = types.RecoveryPolicy(viper.GetString("extraction.recovery"))
	if err := viper.UnmarshalKey("extraction.models", &cfg.Extraction.Models); err != nil {
		cfg.Extraction.Models = nil
	}
	cfg.Extraction.APIKey = secretDefault("gemini-api-key", viper.GetString("extraction.api_key"))

	cfg.Journal.Name = viper.GetString("journal.name")
	cfg.Journal.ISSN = viper.GetString("journal.issn")
	cfg.Journal.DOIPrefix = viper.GetString("journal.doi_prefix")
	cfg.Journal.Volume = viper.GetString("journal.volume")
	cfg.Journal.Issue = viper.GetString("journal.issue")
	cfg.Journal.LogoURL = viper.GetString("journal.logo_url")

	cfg.Export.OutputDir = viper.GetString("export.output_dir")
	cfg.Export.BrowserURL = viper.GetString("export.browser_url")
	cfg.Export.BrowserTimeout = viper.GetDuration("export.browser_timeout")

	cfg.Settings.Path = viper.GetString("settings.path")
	cfg.Server.Addr = viper.GetString("server.addr")
	cfg.Server.MaxUploadSize = viper.GetInt64("server.max_upload_size")

	return cfg
}

// newExtractionClient builds the extraction client with both provider
// backends and any stored overrides applied. The settings store is optional;
// a missing or unopenable store falls back to config values.
func newExtractionClient(cfg *types.PipelineConfig) *extraction.Client {
	if store, err := settings.NewStore(cfg.Settings); err == nil {
		store.ApplyOverrides(&cfg.Extraction)
		store.Close()
	}

	httpClient := &http.Client{Timeout: cfg.Extraction.Timeout}
	backends := map[string]extraction.Backend{
		"gemini": &extraction.GeminiBackend{
			APIKey: cfg.Extraction.APIKey,
			Client: httpClient,
		},
	}
	if key := secretDefault("anthropic-api-key", ""); key != "" {
		backends["anthropic"] = &extraction.ClaudeBackend{
			APIKey: key,
			Client: httpClient,
		}
	}
	return extraction.NewClient(cfg.Extraction, backends)
}

// workPath resolves a stage-output filename under --work-dir.
func workPath(cmd *cobra.Command, name string) string {
	dir, _ := cmd.Flags().GetString("work-dir")
	if dir == "" {
		dir = "work"
	}
	return filepath.Join(dir, name)
}

const (
	sourceFile     = "source.yaml"
	manuscriptFile = "manuscript.yaml"
)
