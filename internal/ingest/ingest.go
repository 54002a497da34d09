// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest turns an uploaded manuscript file (DOCX, PDF, HTML, TXT,
// MD) into plain text plus a figure manifest. Embedded images are assigned
// sequential figure ids starting at "1" in document order; the ids stay
// stable for the life of the editing session and are matched against inline
// citations by the layout engine.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// ErrUnsupportedFormat is returned for file extensions the pipeline cannot
// read. Callers surface it immediately; there is no retry for bad uploads.
var ErrUnsupportedFormat = errors.New("unsupported file format")

const defaultMaxFileSize = 32 << 20 // 32 MiB

// Format identifies a supported input format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatTXT  Format = "txt"
	FormatMD   Format = "md"
)

// Source is the result of ingesting one file: the raw text blob handed to
// the prompt builder and validator, plus the figure manifest.
type Source struct {
	// RawText is the extracted plain text, paragraphs separated by blank lines.
	RawText string

	// Figures are embedded images in document order, ids "1"..N.
	Figures []types.Figure

	// Format is the detected input format.
	Format Format

	// Notes carries non-fatal extraction caveats (e.g. a PDF whose images
	// could not be pulled out), surfaced to the editor.
	Notes []string
}

// Pipeline is the file ingestion engine.
type Pipeline struct {
	cfg types.IngestConfig
}

// New creates a Pipeline, applying config defaults.
func New(cfg types.IngestConfig) *Pipeline {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	if cfg.FiguresDir == "" {
		cfg.FiguresDir = "figures"
	}
	return &Pipeline{cfg: cfg}
}

// Detect maps a filename to its Format.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return FormatDOCX, nil
	case ".pdf":
		return FormatPDF, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".txt", ".text":
		return FormatTXT, nil
	case ".md", ".markdown":
		return FormatMD, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Extract ingests the file at path.
func (p *Pipeline) Extract(ctx context.Context, path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), p.cfg.MaxFileSize)
	}

	format, err := Detect(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return p.ExtractReader(ctx, f, format)
}

// ExtractReader ingests an already-open stream of a known format.
func (p *Pipeline) ExtractReader(ctx context.Context, r io.Reader, format Format) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var src *Source
	var err error
	switch format {
	case FormatDOCX:
		src, err = p.extractDOCX(r)
	case FormatPDF:
		src, err = p.extractPDF(r)
	case FormatHTML:
		src, err = p.extractHTML(r)
	case FormatTXT, FormatMD:
		src, err = extractText(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", format, err)
	}

	src.Format = format
	if strings.TrimSpace(src.RawText) == "" {
		return nil, fmt.Errorf("no text content found in %s input", format)
	}
	return src, nil
}

// writeFigure stores image bytes under the figures directory and returns
// the file path used as the figure's FileURL.
func (p *Pipeline) writeFigure(id string, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(p.cfg.FiguresDir, 0o755); err != nil {
		return "", fmt.Errorf("creating figures directory: %w", err)
	}
	path := filepath.Join(p.cfg.FiguresDir, "figure-"+id+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing figure %s: %w", id, err)
	}
	return path, nil
}
