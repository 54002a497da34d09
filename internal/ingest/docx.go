// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// extractDOCX parses a .docx stream: paragraphs and tables from
// word/document.xml, embedded images from word/media/ ordered by their
// first reference in the document body.
func (p *Pipeline) extractDOCX(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading docx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	docXML, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return nil, err
	}

	text, imageRefs, err := walkDocumentXML(docXML)
	if err != nil {
		return nil, err
	}

	src := &Source{RawText: text}

	// Map relationship ids to media files, then materialize figures in
	// citation order.
	rels, _ := readZipFile(zr, "word/_rels/document.xml.rels")
	targets := parseRelationships(rels)
	for _, rid := range imageRefs {
		target, ok := targets[rid]
		if !ok {
			continue
		}
		name := path.Join("word", target)
		img, err := readZipFile(zr, name)
		if err != nil {
			src.Notes = append(src.Notes, fmt.Sprintf("embedded image %s unreadable", target))
			continue
		}
		id := strconv.Itoa(len(src.Figures) + 1)
		fileURL, err := p.writeFigure(id, path.Ext(target), img)
		if err != nil {
			return nil, err
		}
		src.Figures = append(src.Figures, figure(id, fileURL))
	}

	return src, nil
}

// walkDocumentXML streams through document.xml collecting paragraph text,
// table rows as [TABLE] markup, and image relationship ids in document
// order. Heading paragraphs keep their text; style metadata is not needed
// because classification happens downstream.
func walkDocumentXML(docXML []byte) (string, []string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(docXML))

	var (
		sb        strings.Builder
		current   strings.Builder
		inPara    bool
		inTable   bool
		tableRows []string
		rowCells  []string
		cell      strings.Builder
		imageRefs []string
		seenRef   = map[string]bool{}
	)

	flushPara := func() {
		text := strings.TrimSpace(current.String())
		current.Reset()
		if text == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("parsing document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				inTable = true
				tableRows = nil
			case "tr":
				rowCells = nil
			case "tc":
				cell.Reset()
			case "p":
				if !inTable {
					inPara = true
					current.Reset()
				}
			case "blip":
				for _, attr := range t.Attr {
					if attr.Name.Local == "embed" && !seenRef[attr.Value] {
						seenRef[attr.Value] = true
						imageRefs = append(imageRefs, attr.Value)
					}
				}
			case "br":
				if inPara {
					current.WriteByte(' ')
				}
			}

		case xml.CharData:
			switch {
			case inTable:
				cell.Write(t)
			case inPara:
				current.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "tc":
				rowCells = append(rowCells, strings.TrimSpace(cell.String()))
			case "tr":
				if len(rowCells) > 0 {
					tableRows = append(tableRows, strings.Join(rowCells, " | "))
				}
			case "tbl":
				inTable = false
				if len(tableRows) > 0 {
					if sb.Len() > 0 {
						sb.WriteString("\n\n")
					}
					sb.WriteString("[TABLE]\n")
					sb.WriteString(strings.Join(tableRows, "\n"))
					sb.WriteString("\n[/TABLE]")
				}
			case "p":
				if inPara {
					inPara = false
					flushPara()
				}
			}
		}
	}

	return sb.String(), imageRefs, nil
}

// relationships is the word/_rels/document.xml.rels document.
type relationships struct {
	Relationship []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// parseRelationships maps relationship ids to their media targets. A nil or
// unparseable rels file yields an empty map.
func parseRelationships(rels []byte) map[string]string {
	out := make(map[string]string)
	if len(rels) == 0 {
		return out
	}
	var r relationships
	if err := xml.Unmarshal(rels, &r); err != nil {
		return out
	}
	for _, rel := range r.Relationship {
		if strings.Contains(rel.Target, "media/") {
			out[rel.ID] = rel.Target
		}
	}
	return out
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", name, err)
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}
