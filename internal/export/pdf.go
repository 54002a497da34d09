// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// a4 dimensions in inches for the print call.
const (
	a4WidthIn  = 8.27
	a4HeightIn = 11.69
)

// PDFWriter prints rendered article HTML to PDF through a headless
// browser, which gives true paged A4 output with the two-column flow the
// CSS specifies. An external Chrome can be supplied via BrowserURL;
// otherwise a local instance is launched per writer.
type PDFWriter struct {
	cfg types.ExportConfig
}

// NewPDFWriter creates a PDFWriter, applying config defaults.
func NewPDFWriter(cfg types.ExportConfig) *PDFWriter {
	if cfg.BrowserTimeout <= 0 {
		cfg.BrowserTimeout = 60 * time.Second
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	return &PDFWriter{cfg: cfg}
}

// Write renders html to a paginated A4 PDF at outPath.
func (w *PDFWriter) Write(ctx context.Context, html string, outPath string) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.BrowserTimeout)
	defer cancel()

	browser, cleanup, err := w.connect(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	// Serve the HTML from a temp file so relative figure paths resolve.
	tmp, err := os.CreateTemp("", "manuscript-*.html")
	if err != nil {
		return fmt.Errorf("creating temp html: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp html: %w", err)
	}
	tmp.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + tmp.Name()})
	if err != nil {
		return fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for page load: %w", err)
	}

	paperWidth := a4WidthIn
	paperHeight := a4HeightIn
	marginZero := 0.0
	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      &paperWidth,
		PaperHeight:     &paperHeight,
		MarginTop:       &marginZero,
		MarginBottom:    &marginZero,
		MarginLeft:      &marginZero,
		MarginRight:     &marginZero,
		PrintBackground: true,
	})
	if err != nil {
		return fmt.Errorf("printing to PDF: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// connect attaches to the configured remote browser or launches a local
// headless instance. cleanup tears down whatever was created.
func (w *PDFWriter) connect(ctx context.Context) (*rod.Browser, func(), error) {
	if w.cfg.BrowserURL != "" {
		browser := rod.New().Context(ctx).ControlURL(w.cfg.BrowserURL)
		if err := browser.Connect(); err != nil {
			return nil, nil, fmt.Errorf("connecting to browser %s: %w", w.cfg.BrowserURL, err)
		}
		return browser, func() {}, nil
	}

	l := launcher.New().Headless(true)
	url, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching headless browser: %w", err)
	}
	browser := rod.New().Context(ctx).ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, nil, fmt.Errorf("connecting to launched browser: %w", err)
	}
	cleanup := func() {
		browser.Close()
		l.Cleanup()
	}
	return browser, cleanup, nil
}
