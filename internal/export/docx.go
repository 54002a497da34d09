// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/manuscript-press/internal/layout"
	"github.com/pdiddy/manuscript-press/internal/manuscript"
	"github.com/pdiddy/manuscript-press/pkg/types"
)

// DOCXWriter serializes the manuscript and its flowed blocks into a Word
// package: a single-column front-matter section followed by a two-column
// continuous body section, with first-page and running headers. The OOXML
// is assembled directly over archive/zip; Word tolerates this minimal part
// set.
type DOCXWriter struct {
	journal types.JournalConfig
}

// NewDOCXWriter creates a DOCXWriter.
func NewDOCXWriter(journal types.JournalConfig) *DOCXWriter {
	return &DOCXWriter{journal: journal}
}

// Write builds the .docx file at outPath.
func (w *DOCXWriter) Write(doc *types.Manuscript, blocks []layout.Block, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	images := collectImages(doc)

	parts := map[string]string{
		"[Content_Types].xml":          contentTypesXML(images),
		"_rels/.rels":                  rootRelsXML,
		"word/document.xml":            w.documentXML(doc, blocks, images),
		"word/_rels/document.xml.rels": documentRelsXML(images),
		"word/header1.xml":             w.headerXML(firstPageHeader(doc, w.journal)),
		"word/header2.xml":             w.headerXML(runningHeader(doc)),
		"word/footer1.xml":             w.footerXML(w.journal.Name),
		"word/footer2.xml":             w.footerXML(w.journal.Name),
	}

	for name, content := range parts {
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("creating part %s: %w", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			return fmt.Errorf("writing part %s: %w", name, err)
		}
	}

	for _, img := range images {
		data, err := os.ReadFile(img.path)
		if err != nil {
			// Remote or missing figure files are skipped; the caption block
			// still appears in the document.
			continue
		}
		f, err := zw.Create("word/media/" + img.name)
		if err != nil {
			return fmt.Errorf("creating media %s: %w", img.name, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing media %s: %w", img.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing docx: %w", err)
	}
	return nil
}

// docxImage is one embeddable figure file.
type docxImage struct {
	figID string
	relID string
	name  string
	path  string
	ext   string
}

// collectImages gathers local figure files that can be embedded. Figures
// with URL sources keep caption-only rendering.
func collectImages(doc *types.Manuscript) []docxImage {
	var images []docxImage
	for _, f := range doc.Figures {
		if strings.Contains(f.FileURL, "://") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.FileURL))
		if ext != ".png" && ext != ".jpg" && ext != ".jpeg" && ext != ".gif" {
			continue
		}
		images = append(images, docxImage{
			figID: f.ID,
			relID: "rIdImg" + f.ID,
			name:  "figure-" + f.ID + ext,
			path:  f.FileURL,
			ext:   ext,
		})
	}
	return images
}

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

func contentTypesXML(images []docxImage) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Default Extension="png" ContentType="image/png"/>
<Default Extension="jpg" ContentType="image/jpeg"/>
<Default Extension="jpeg" ContentType="image/jpeg"/>
<Default Extension="gif" ContentType="image/gif"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>
<Override PartName="/word/header2.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>
<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>
<Override PartName="/word/footer2.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>
</Types>`)
	return sb.String()
}

func documentRelsXML(images []docxImage) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rIdH1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>
<Relationship Id="rIdH2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header2.xml"/>
<Relationship Id="rIdF1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>
<Relationship Id="rIdF2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer2.xml"/>
`)
	for _, img := range images {
		fmt.Fprintf(&sb,
			`<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/%s"/>`+"\n",
			img.relID, img.name)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

// documentXML assembles word/document.xml: front matter paragraphs, a
// continuous section break switching to two columns, body blocks, and the
// closing section properties carrying the header/footer references with a
// distinct first page.
func (w *DOCXWriter) documentXML(doc *types.Manuscript, blocks []layout.Block, images []docxImage) string {
	imgByFig := make(map[string]docxImage, len(images))
	for _, img := range images {
		imgByFig[img.figID] = img
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">
<w:body>
`)

	// Front matter, single column.
	sb.WriteString(paragraph(doc.ArticleType, propItalic, propCenter))
	sb.WriteString(paragraph(doc.Title, propTitle, propCenter))
	sb.WriteString(paragraph(authorLine(doc), propCenter))
	aff := manuscript.IndexAffiliations(doc.Authors)
	for i, a := range aff.Affiliations {
		sb.WriteString(paragraph(fmt.Sprintf("%d %s", i+1, a), propItalic, propSmall, propCenter))
	}
	sb.WriteString(paragraph("Abstract. "+doc.Abstract, propSmall))
	if len(doc.Keywords) > 0 {
		sb.WriteString(paragraph("Keywords: "+strings.Join(doc.Keywords, "; "), propSmall, propItalic))
	}
	sb.WriteString(paragraph(fmt.Sprintf("Received: %s · Accepted: %s · Published: %s",
		doc.ReceivedDate, doc.AcceptedDate, doc.PublishedDate), propSmall))
	sb.WriteString(paragraph("Cite as: "+citation(doc, w.journal), propSmall))
	sb.WriteString(paragraph(fmt.Sprintf("© %s The Authors. Creative Commons Attribution (CC BY 4.0).", doc.Year), propSmall))

	// Continuous section break: everything above stays single column.
	sb.WriteString(`<w:p><w:pPr><w:sectPr><w:type w:val="continuous"/><w:pgSz w:w="11906" w:h="16838"/><w:cols w:num="1"/></w:sectPr></w:pPr></w:p>
`)

	// Body, two columns.
	for _, b := range blocks {
		switch b.Kind {
		case layout.KindHeading:
			sb.WriteString(paragraph(b.Text, propHeading))
		case layout.KindSubHeading:
			sb.WriteString(paragraph(b.Text, propSubHeading))
		case layout.KindEquation:
			sb.WriteString(paragraph(b.Text, propItalic, propCenter))
		case layout.KindTable:
			sb.WriteString(tableXML(b.Text))
		case layout.KindFigure:
			if b.Figure == nil {
				continue
			}
			if img, ok := imgByFig[b.Figure.ID]; ok {
				sb.WriteString(drawingXML(img))
			}
			sb.WriteString(paragraph(fmt.Sprintf("Figure %s. %s", b.Figure.ID, b.Figure.Caption), propSmall, propCenter))
		default:
			sb.WriteString(paragraph(b.Text, propIndent))
		}
	}

	if len(doc.References) > 0 {
		sb.WriteString(paragraph("References", propHeading))
		for i, ref := range doc.References {
			sb.WriteString(paragraph(fmt.Sprintf("%d. %s", i+1, ref), propSmall))
		}
	}

	// Closing section: two columns, distinct first page header/footer.
	sb.WriteString(`<w:sectPr>
<w:headerReference w:type="first" r:id="rIdH1"/>
<w:headerReference w:type="default" r:id="rIdH2"/>
<w:footerReference w:type="first" r:id="rIdF1"/>
<w:footerReference w:type="default" r:id="rIdF2"/>
<w:pgSz w:w="11906" w:h="16838"/>
<w:type w:val="continuous"/>
<w:cols w:num="2" w:space="340"/>
<w:titlePg/>
</w:sectPr>
</w:body>
</w:document>`)
	return sb.String()
}

// Paragraph property fragments.
const (
	propTitle      = `<w:rPr><w:b/><w:sz w:val="30"/></w:rPr>`
	propHeading    = `<w:rPr><w:b/><w:sz w:val="22"/></w:rPr>`
	propSubHeading = `<w:rPr><w:b/><w:i/></w:rPr>`
	propItalic     = `<w:rPr><w:i/></w:rPr>`
	propSmall      = `<w:rPr><w:sz w:val="16"/></w:rPr>`
	propCenter     = `<w:jc w:val="center"/>`
	propIndent     = `<w:ind w:firstLine="284"/>`
)

// paragraph emits one w:p with the given run/paragraph property fragments.
func paragraph(text string, props ...string) string {
	var pPr, rPr strings.Builder
	for _, p := range props {
		if strings.HasPrefix(p, "<w:rPr>") {
			rPr.WriteString(strings.TrimSuffix(strings.TrimPrefix(p, "<w:rPr>"), "</w:rPr>"))
		} else {
			pPr.WriteString(p)
		}
	}

	var sb strings.Builder
	sb.WriteString("<w:p><w:pPr>")
	sb.WriteString(pPr.String())
	if rPr.Len() > 0 {
		sb.WriteString("<w:rPr>" + rPr.String() + "</w:rPr>")
	}
	sb.WriteString("</w:pPr><w:r>")
	if rPr.Len() > 0 {
		sb.WriteString("<w:rPr>" + rPr.String() + "</w:rPr>")
	}
	sb.WriteString(`<w:t xml:space="preserve">`)
	sb.WriteString(xmlEscape(text))
	sb.WriteString("</w:t></w:r></w:p>\n")
	return sb.String()
}

// tableXML converts [TABLE] row markup into a bordered w:tbl.
func tableXML(text string) string {
	body := text
	if i := strings.Index(strings.ToUpper(body), "[TABLE]"); i >= 0 {
		body = body[i+len("[TABLE]"):]
	}
	if i := strings.Index(strings.ToUpper(body), "[/TABLE]"); i >= 0 {
		body = body[:i]
	}

	var sb strings.Builder
	sb.WriteString(`<w:tbl><w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4"/><w:bottom w:val="single" w:sz="4"/><w:left w:val="single" w:sz="4"/><w:right w:val="single" w:sz="4"/><w:insideH w:val="single" w:sz="4"/><w:insideV w:val="single" w:sz="4"/></w:tblBorders><w:jc w:val="center"/></w:tblPr>
`)
	for _, row := range strings.Split(strings.TrimSpace(body), "\n") {
		row = strings.TrimSpace(row)
		if row == "" {
			continue
		}
		sb.WriteString("<w:tr>")
		for _, cell := range strings.Split(row, "|") {
			sb.WriteString(`<w:tc><w:tcPr/><w:p><w:r><w:t xml:space="preserve">`)
			sb.WriteString(xmlEscape(strings.TrimSpace(cell)))
			sb.WriteString("</w:t></w:r></w:p></w:tc>")
		}
		sb.WriteString("</w:tr>\n")
	}
	sb.WriteString("</w:tbl>\n")
	return sb.String()
}

// drawingXML embeds an image run sized to the column width.
func drawingXML(img docxImage) string {
	// 2.8 in wide at 914400 EMU/in, 3:2 aspect placeholder; Word rescales
	// to intrinsic size on open.
	const cx, cy = 2560320, 1706880
	return fmt.Sprintf(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:drawing>
<wp:inline><wp:extent cx="%d" cy="%d"/><wp:docPr id="%s" name="Figure %s"/>
<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">
<pic:pic><pic:nvPicPr><pic:cNvPr id="0" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>
<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>
<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>
</pic:pic></a:graphicData></a:graphic></wp:inline>
</w:drawing></w:r></w:p>
`, cx, cy, img.figID, img.figID, xmlEscape(img.name), img.relID, cx, cy)
}

func (w *DOCXWriter) headerXML(text string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:p><w:pPr><w:jc w:val="center"/><w:rPr><w:sz w:val="14"/></w:rPr></w:pPr><w:r><w:rPr><w:sz w:val="14"/></w:rPr><w:t xml:space="preserve">` +
		xmlEscape(text) + `</w:t></w:r></w:p>
</w:hdr>`
}

func (w *DOCXWriter) footerXML(text string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:p><w:pPr><w:jc w:val="center"/><w:rPr><w:sz w:val="14"/></w:rPr></w:pPr><w:r><w:rPr><w:sz w:val="14"/></w:rPr><w:t xml:space="preserve">` +
		xmlEscape(text) + `</w:t></w:r></w:p>
</w:ftr>`
}

// firstPageHeader carries the volume/DOI line shown only on page one.
func firstPageHeader(doc *types.Manuscript, journal types.JournalConfig) string {
	return fmt.Sprintf("%s · Volume %s, Issue %s (%s) · DOI: %s",
		journal.Name, doc.Volume, doc.Issue, doc.Year, doc.DOI)
}

// runningHeader is the short title line on subsequent pages.
func runningHeader(doc *types.Manuscript) string {
	title := doc.Title
	if len(title) > 80 {
		title = title[:77] + "..."
	}
	return title
}

func authorLine(doc *types.Manuscript) string {
	aff := manuscript.IndexAffiliations(doc.Authors)
	parts := make([]string, len(doc.Authors))
	for i, a := range doc.Authors {
		s := a.Name
		if aff.ByAuthor[i] >= 0 {
			s = fmt.Sprintf("%s %d", s, aff.ByAuthor[i]+1)
		}
		if a.Corresponding {
			s += "*"
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

// xmlEscape escapes text for inclusion in OOXML character data.
func xmlEscape(s string) string {
	var buf strings.Builder
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
