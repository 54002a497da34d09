// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/manuscript-press/internal/layout"
	"github.com/pdiddy/manuscript-press/pkg/types"
)

func readZipParts(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	parts := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		parts[f.Name] = string(data)
	}
	return parts
}

func TestDOCXWriter(t *testing.T) {
	dir := t.TempDir()
	figPath := filepath.Join(dir, "figure-1.png")
	if err := os.WriteFile(figPath, []byte{0x89, 'P', 'N', 'G'}, 0o644); err != nil {
		t.Fatal(err)
	}

	doc := sampleDoc()
	doc.Figures = []types.Figure{{ID: "1", FileURL: figPath, Caption: "Setup"}}
	blocks := []layout.Block{
		{Kind: layout.KindHeading, Text: "1. INTRODUCTION"},
		{Kind: layout.KindParagraph, Text: "Body text."},
		{Kind: layout.KindTable, Text: "[TABLE]\nSite | Yield\n[/TABLE]"},
		{Kind: layout.KindFigure, Figure: &doc.Figures[0]},
	}

	outPath := filepath.Join(dir, "article.docx")
	if err := NewDOCXWriter(sampleJournal()).Write(doc, blocks, outPath); err != nil {
		t.Fatal(err)
	}

	parts := readZipParts(t, outPath)
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"word/header1.xml",
		"word/header2.xml",
		"word/footer1.xml",
		"word/footer2.xml",
		"word/media/figure-1.png",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing package part %s", name)
		}
	}

	docXML := parts["word/document.xml"]
	for _, want := range []string{
		"Effects of Drought on Maize",
		"1. INTRODUCTION",
		`<w:cols w:num="2"`,
		"<w:tbl>",
		`r:embed="rIdImg1"`,
	} {
		if !strings.Contains(docXML, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}

	if !strings.Contains(parts["word/_rels/document.xml.rels"], `Target="media/figure-1.png"`) {
		t.Error("document rels missing figure target")
	}
	if !strings.Contains(parts["word/header1.xml"], "Journal of Agronomy Letters") {
		t.Error("first-page header missing journal name")
	}
}

func TestDOCXWriterSkipsRemoteFigures(t *testing.T) {
	doc := sampleDoc()
	doc.Figures = []types.Figure{{ID: "1", FileURL: "http://example.com/fig.png", Caption: "Remote"}}

	outPath := filepath.Join(t.TempDir(), "article.docx")
	if err := NewDOCXWriter(sampleJournal()).Write(doc, nil, outPath); err != nil {
		t.Fatal(err)
	}

	parts := readZipParts(t, outPath)
	for name := range parts {
		if strings.HasPrefix(name, "word/media/") {
			t.Errorf("remote figure must not be embedded, found %s", name)
		}
	}
}
