// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	return New(types.IngestConfig{FiguresDir: filepath.Join(t.TempDir(), "figures")})
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"paper.docx", FormatDOCX, false},
		{"paper.PDF", FormatPDF, false},
		{"page.htm", FormatHTML, false},
		{"notes.txt", FormatTXT, false},
		{"draft.markdown", FormatMD, false},
		{"archive.tar.gz", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := Detect(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Detect(%q): want error", tt.path)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Detect(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
}

func TestExtractText(t *testing.T) {
	in := "Title Line\r\n\r\n\r\nFirst paragraph\r\ncontinues here.  \n\nSecond paragraph."

	src, err := testPipeline(t).ExtractReader(context.Background(), strings.NewReader(in), FormatTXT)
	if err != nil {
		t.Fatal(err)
	}

	want := "Title Line\n\nFirst paragraph\ncontinues here.\n\nSecond paragraph."
	if src.RawText != want {
		t.Errorf("RawText = %q, want %q", src.RawText, want)
	}
	if len(src.Figures) != 0 {
		t.Errorf("Figures = %+v", src.Figures)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	_, err := testPipeline(t).ExtractReader(context.Background(), strings.NewReader("  \n "), FormatTXT)
	if err == nil {
		t.Fatal("want error for input with no text")
	}
}

func TestExtractRejectsOversizeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 100), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(types.IngestConfig{MaxFileSize: 10, FiguresDir: dir})
	if _, err := p.Extract(context.Background(), path); err == nil {
		t.Fatal("want error for oversize file")
	}
}

func TestExtractHTML(t *testing.T) {
	in := `<html><head><script>evil()</script><style>p{}</style></head><body>
<nav>menu</nav>
<h1>The Heading</h1>
<p>First paragraph.</p>
<img src="http://example.com/fig.png" alt="Experimental setup">
<table><tr><td>A</td><td>B</td></tr></table>
<footer>copyright</footer>
</body></html>`

	src, err := testPipeline(t).ExtractReader(context.Background(), strings.NewReader(in), FormatHTML)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(src.RawText, "The Heading") || !strings.Contains(src.RawText, "First paragraph.") {
		t.Errorf("RawText = %q", src.RawText)
	}
	for _, dropped := range []string{"evil()", "menu", "copyright"} {
		if strings.Contains(src.RawText, dropped) {
			t.Errorf("boilerplate %q leaked into RawText", dropped)
		}
	}
	if len(src.Figures) != 1 {
		t.Fatalf("Figures = %+v", src.Figures)
	}
	if src.Figures[0].ID != "1" || src.Figures[0].Caption != "Experimental setup" {
		t.Errorf("figure = %+v, alt text should become the caption", src.Figures[0])
	}
	if src.Figures[0].FileURL != "http://example.com/fig.png" {
		t.Errorf("FileURL = %q", src.Figures[0].FileURL)
	}
}

// buildDOCX assembles a minimal .docx archive in memory.
func buildDOCX(t *testing.T, documentXML string, extra map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := map[string][]byte{"word/document.xml": []byte(documentXML)}
	for name, data := range extra {
		parts[name] = data
	}
	for name, data := range parts {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractDOCX(t *testing.T) {
	documentXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<w:body>
<w:p><w:r><w:t>Effects of Drought on Maize</w:t></w:r></w:p>
<w:p><w:r><w:t>First paragraph with </w:t></w:r><w:r><w:t>two runs.</w:t></w:r></w:p>
<w:p><w:r><a:blip r:embed="rId7"/></w:r></w:p>
<w:tbl>
<w:tr><w:tc><w:p><w:r><w:t>Site</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Yield</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>North</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>4.2</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>
</w:body>
</w:document>`

	relsXML := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId7" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`

	data := buildDOCX(t, documentXML, map[string][]byte{
		"word/_rels/document.xml.rels": []byte(relsXML),
		"word/media/image1.png":        {0x89, 'P', 'N', 'G'},
	})

	p := testPipeline(t)
	src, err := p.ExtractReader(context.Background(), bytes.NewReader(data), FormatDOCX)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(src.RawText, "Effects of Drought on Maize") {
		t.Errorf("RawText = %q", src.RawText)
	}
	if !strings.Contains(src.RawText, "First paragraph with two runs.") {
		t.Errorf("runs not joined: %q", src.RawText)
	}
	if !strings.Contains(src.RawText, "[TABLE]\nSite | Yield\nNorth | 4.2\n[/TABLE]") {
		t.Errorf("table markup missing: %q", src.RawText)
	}

	if len(src.Figures) != 1 {
		t.Fatalf("Figures = %+v", src.Figures)
	}
	fig := src.Figures[0]
	if fig.ID != "1" {
		t.Errorf("figure ID = %q", fig.ID)
	}
	if _, err := os.Stat(fig.FileURL); err != nil {
		t.Errorf("figure file not written: %v", err)
	}
}

func TestExtractDOCXWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/other.xml")
	if err != nil {
		t.Fatal(err)
	}
	f.Write([]byte("<x/>"))
	zw.Close()

	p := testPipeline(t)
	if _, err := p.ExtractReader(context.Background(), bytes.NewReader(buf.Bytes()), FormatDOCX); err == nil {
		t.Fatal("want error for archive without document.xml")
	}
}

func TestSaveLoadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.yaml")
	src := &Source{
		RawText: "body text",
		Figures: []types.Figure{{ID: "1", FileURL: "figures/figure-1.png", Caption: "Figure 1"}},
		Format:  FormatTXT,
		Notes:   []string{"a note"},
	}

	if err := Save(path, src); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.RawText != src.RawText || got.Format != src.Format || len(got.Figures) != 1 {
		t.Errorf("loaded = %+v", got)
	}
}
