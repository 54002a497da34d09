// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes a finalized manuscript plus its classified
// layout blocks into the delivery formats: print-ready HTML, PDF printed
// through a headless browser, DOCX, and the acceptance letter.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/pdiddy/manuscript-press/internal/layout"
	"github.com/pdiddy/manuscript-press/internal/manuscript"
	"github.com/pdiddy/manuscript-press/pkg/types"
)

// articleTmpl is the print layout: A4 page, single-column front matter,
// two-column body. The CSS stays deliberately minimal; print fidelity comes
// from the browser's paged rendering.
var articleTmpl = template.Must(template.New("article").Funcs(template.FuncMap{
	"sup": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Doc.Title}}</title>
<style>
@page { size: A4; margin: 18mm 14mm; }
body { font-family: "Times New Roman", serif; font-size: 9.5pt; line-height: 1.35; margin: 0; }
.front { column-count: 1; border-bottom: 1.2pt solid #000; padding-bottom: 8px; }
.masthead { display: flex; justify-content: space-between; align-items: center; font-size: 8pt; }
.banner { background: #f0f4e8; font-size: 8pt; padding: 2px 6px; margin: 4px 0; }
h1.title { font-size: 15pt; margin: 10px 0 6px; }
.authors { font-size: 10pt; margin: 0 0 2px; }
.affil { font-size: 8pt; font-style: italic; margin: 0; }
.abstract { border: 0.6pt solid #000; padding: 6px 8px; margin: 8px 0; }
.abstract .label { font-weight: bold; }
.dates, .cite, .license { font-size: 7.5pt; margin: 3px 0; }
.body { column-count: 2; column-gap: 6mm; text-align: justify; margin-top: 8px; }
.body h2 { font-size: 10.5pt; margin: 8px 0 4px; break-after: avoid; }
.body h3 { font-size: 9.5pt; font-style: italic; margin: 6px 0 3px; }
.body p { margin: 0 0 5px; text-indent: 1.5em; }
.equation { text-align: center; font-style: italic; margin: 6px 0; text-indent: 0; }
.table-wrap { break-inside: avoid; margin: 6px 0; }
.table-wrap table { border-collapse: collapse; margin: 0 auto; font-size: 8.5pt; }
.table-wrap td { border: 0.5pt solid #000; padding: 2px 5px; }
figure { break-inside: avoid; margin: 8px 0; text-align: center; }
figure img { max-width: 100%; }
figcaption { font-size: 8pt; margin-top: 3px; }
.references p { font-size: 8pt; text-indent: 0; margin-bottom: 3px; }
</style>
</head>
<body>
<div class="front">
  <div class="masthead">
    <img src="{{.Doc.LogoURL}}" alt="journal logo" style="height:34px">
    <div>{{.Journal.Name}}{{if .Journal.ISSN}} · ISSN {{.Journal.ISSN}}{{end}}</div>
  </div>
  <div class="banner">Open Access · Volume {{.Doc.Volume}}, Issue {{.Doc.Issue}} ({{.Doc.Year}}) · DOI: {{.Doc.DOI}}</div>
  <div class="banner" style="background:#eef">{{.Doc.ArticleType}}</div>
  <h1 class="title">{{.Doc.Title}}</h1>
  <p class="authors">{{range $i, $a := .Doc.Authors}}{{if $i}}, {{end}}{{$a.Name}}{{$n := index $.AffIndex.ByAuthor $i}}{{if ge $n 0}}<sup>{{sup $n}}</sup>{{end}}{{if $a.Corresponding}}<sup>*</sup>{{end}}{{end}}</p>
  {{range $i, $aff := .AffIndex.Affiliations}}<p class="affil"><sup>{{sup $i}}</sup> {{$aff}}</p>
  {{end}}
  {{with .Corresponding}}<p class="affil"><sup>*</sup> Corresponding author: {{.}}</p>{{end}}
  <div class="abstract"><span class="label">Abstract.</span> {{.Doc.Abstract}}
  {{if .Doc.Keywords}}<br><span class="label">Keywords:</span> {{.KeywordList}}{{end}}
  </div>
  <p class="dates">Received: {{.Doc.ReceivedDate}} · Accepted: {{.Doc.AcceptedDate}} · Published: {{.Doc.PublishedDate}}</p>
  <p class="cite">Cite as: {{.Citation}}</p>
  <p class="license">© {{.Doc.Year}} The Authors. Published under a Creative Commons Attribution (CC BY 4.0) license.</p>
</div>
<div class="body">
{{range .Blocks}}{{.}}
{{end}}
{{if .Doc.References}}<div class="references">
  <h2>References</h2>
  {{range $i, $ref := .Doc.References}}<p>{{sup $i}}. {{$ref}}</p>
  {{end}}
</div>{{end}}
</div>
</body>
</html>
`))

// RenderHTML produces the print-layout HTML for a finalized manuscript and
// its flowed blocks. The same HTML drives on-screen preview and the
// browser-printed PDF.
func RenderHTML(doc *types.Manuscript, blocks []layout.Block, journal types.JournalConfig) (string, error) {
	aff := manuscript.IndexAffiliations(doc.Authors)

	rendered := make([]template.HTML, 0, len(blocks))
	for _, b := range blocks {
		rendered = append(rendered, renderBlock(b))
	}

	corresponding := ""
	for _, a := range doc.Authors {
		if a.Corresponding && a.Email != "" {
			corresponding = a.Email
			break
		}
	}

	var buf bytes.Buffer
	err := articleTmpl.Execute(&buf, struct {
		Doc           *types.Manuscript
		Journal       types.JournalConfig
		AffIndex      manuscript.AffiliationIndex
		Blocks        []template.HTML
		KeywordList   string
		Citation      string
		Corresponding string
	}{
		Doc:           doc,
		Journal:       journal,
		AffIndex:      aff,
		Blocks:        rendered,
		KeywordList:   strings.Join(doc.Keywords, "; "),
		Citation:      citation(doc, journal),
		Corresponding: corresponding,
	})
	if err != nil {
		return "", fmt.Errorf("rendering article HTML: %w", err)
	}
	return buf.String(), nil
}

// renderBlock maps one layout block to its HTML form. Text content is
// escaped; table blocks built from [TABLE] markup are generated here and
// pre-existing HTML tables pass through unchanged.
func renderBlock(b layout.Block) template.HTML {
	esc := template.HTMLEscapeString
	switch b.Kind {
	case layout.KindHeading:
		return template.HTML("<h2>" + esc(b.Text) + "</h2>")
	case layout.KindSubHeading:
		return template.HTML("<h3>" + esc(b.Text) + "</h3>")
	case layout.KindEquation:
		return template.HTML(`<p class="equation">` + esc(b.Text) + "</p>")
	case layout.KindTable:
		return renderTable(b.Text)
	case layout.KindFigure:
		if b.Figure == nil {
			return ""
		}
		return template.HTML(fmt.Sprintf(
			`<figure><img src="%s" alt="Figure %s"><figcaption><b>Figure %s.</b> %s</figcaption></figure>`,
			esc(b.Figure.FileURL), esc(b.Figure.ID), esc(b.Figure.ID), esc(b.Figure.Caption)))
	default:
		return template.HTML("<p>" + esc(b.Text) + "</p>")
	}
}

// renderTable converts [TABLE] row markup into a centered HTML table.
// Blocks that already contain <table> markup are passed through with the
// centering wrapper only.
func renderTable(text string) template.HTML {
	if strings.Contains(strings.ToLower(text), "<table") {
		return template.HTML(`<div class="table-wrap">` + text + "</div>")
	}

	body := text
	if i := strings.Index(strings.ToUpper(body), "[TABLE]"); i >= 0 {
		body = body[i+len("[TABLE]"):]
	}
	if i := strings.Index(strings.ToUpper(body), "[/TABLE]"); i >= 0 {
		body = body[:i]
	}

	var sb strings.Builder
	sb.WriteString(`<div class="table-wrap"><table>`)
	for _, row := range strings.Split(strings.TrimSpace(body), "\n") {
		row = strings.TrimSpace(row)
		if row == "" {
			continue
		}
		sb.WriteString("<tr>")
		for _, cell := range strings.Split(row, "|") {
			sb.WriteString("<td>")
			sb.WriteString(template.HTMLEscapeString(strings.TrimSpace(cell)))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table></div>")
	return template.HTML(sb.String())
}

// citation formats the front-matter citation line.
func citation(doc *types.Manuscript, journal types.JournalConfig) string {
	names := make([]string, len(doc.Authors))
	for i, a := range doc.Authors {
		names[i] = a.Name
	}
	j := journal.Name
	if j == "" {
		j = "Journal"
	}
	return fmt.Sprintf("%s (%s). %s. %s %s(%s):%s. doi:%s",
		strings.Join(names, ", "), doc.Year, doc.Title, j, doc.Volume, doc.Issue, doc.Pages, doc.DOI)
}
