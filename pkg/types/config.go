// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "manuscript-press/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RecoveryPolicy controls what happens when structural repair of a truncated
// model response succeeds but required fields are missing.
type RecoveryPolicy string

const (
	// RecoverPlaceholder backfills missing fields with placeholder text
	// ("Untitled (Recovered)", "Partial Content") and returns a partial result.
	RecoverPlaceholder RecoveryPolicy = "placeholder"

	// RecoverFail treats a schema-incomplete repaired response as a failure
	// for that model and advances to the next candidate.
	RecoverFail RecoveryPolicy = "fail"
)

// ModelCandidate identifies one generative-backend configuration. Candidates
// are tried strictly in list order: fast/cheap first, higher-quality fallback
// later. The order is explicit configuration, never discovered.
type ModelCandidate struct {
	// Provider selects the backend implementation: "gemini" or "anthropic".
	Provider string `json:"provider" yaml:"provider"`

	// Name is the provider's model identifier (e.g. "gemini-2.5-flash").
	Name string `json:"name" yaml:"name"`
}

// ExtractionConfig holds settings for the AI structuring stage.
type ExtractionConfig struct {
	HTTPConfig `yaml:",inline"`

	// Models is the ordered candidate list. Empty uses the built-in default
	// (Gemini flash first, Gemini pro fallback).
	Models []ModelCandidate `json:"models" yaml:"models"`

	// APIKey authenticates against the backend. Usually loaded from
	// .secrets/ or the settings store rather than the config file.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxAttemptsPerModel bounds retries of transient failures per candidate
	// (default 3).
	MaxAttemptsPerModel int `json:"max_attempts_per_model" yaml:"max_attempts_per_model"`

	// Temperature for generation. Kept low for deterministic reconstruction
	// (default 0.1).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxOutputTokens caps the response length. 0 uses the provider default.
	MaxOutputTokens int `json:"max_output_tokens" yaml:"max_output_tokens"`

	// Recovery selects placeholder backfill versus hard failure for
	// schema-incomplete repaired output (default placeholder).
	Recovery RecoveryPolicy `json:"recovery" yaml:"recovery"`
}

// IngestConfig holds settings for the file ingestion stage.
type IngestConfig struct {
	// MaxFileSize bounds uploads in bytes (default 32 MiB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// FiguresDir is where embedded images are written (default "figures").
	FiguresDir string `json:"figures_dir" yaml:"figures_dir"`
}

// JournalConfig holds the publication defaults applied by finalization to
// fields the extraction schema does not own.
type JournalConfig struct {
	// Name is the journal masthead name.
	Name string `json:"name" yaml:"name"`

	// ISSN is printed in the front matter.
	ISSN string `json:"issn" yaml:"issn"`

	// DOIPrefix is used for the placeholder DOI (e.g. "10.5555").
	DOIPrefix string `json:"doi_prefix" yaml:"doi_prefix"`

	// Volume and Issue default the corresponding manuscript fields.
	Volume string `json:"volume" yaml:"volume"`
	Issue  string `json:"issue" yaml:"issue"`

	// LogoURL defaults the masthead logo reference.
	LogoURL string `json:"logo_url" yaml:"logo_url"`
}

// ExportConfig holds settings for PDF/DOCX export.
type ExportConfig struct {
	// OutputDir is where exported documents are written (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// BrowserURL is the WebSocket URL of an external headless Chrome used
	// for PDF printing. Empty launches a local instance.
	BrowserURL string `json:"browser_url,omitempty" yaml:"browser_url,omitempty"`

	// BrowserTimeout bounds a single print job (default 60s).
	BrowserTimeout time.Duration `json:"browser_timeout" yaml:"browser_timeout"`
}

// SettingsConfig locates the local settings store.
type SettingsConfig struct {
	// Path is the SQLite database file (default "data/settings.db").
	Path string `json:"path" yaml:"path"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8480").
	Addr string `json:"addr" yaml:"addr"`

	// MaxUploadSize bounds multipart uploads in bytes (default 32 MiB).
	MaxUploadSize int64 `json:"max_upload_size" yaml:"max_upload_size"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Ingest     IngestConfig     `json:"ingest" yaml:"ingest"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Export     ExportConfig     `json:"export" yaml:"export"`
	Settings   SettingsConfig   `json:"settings" yaml:"settings"`
	Server     ServerConfig     `json:"server" yaml:"server"`
}
