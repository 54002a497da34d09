// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// letterTmpl is the Letter of Acceptance: journal letterhead, addressed to
// the corresponding author, stating the acceptance decision and publication
// details for the manuscript.
var letterTmpl = template.Must(template.New("letter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Letter of Acceptance</title>
<style>
@page { size: A4; margin: 25mm 20mm; }
body { font-family: "Times New Roman", serif; font-size: 11pt; line-height: 1.5; margin: 0; }
.letterhead { display: flex; justify-content: space-between; align-items: center; border-bottom: 1.5pt solid #000; padding-bottom: 10px; }
.letterhead .journal { font-size: 13pt; font-weight: bold; }
.letterhead .issn { font-size: 9pt; }
.date { text-align: right; margin: 18px 0; }
h1 { font-size: 13pt; text-align: center; text-decoration: underline; margin: 24px 0; }
.detail { margin: 14px 0; }
.detail td { padding: 2px 10px 2px 0; vertical-align: top; }
.detail td:first-child { font-weight: bold; white-space: nowrap; }
.signature { margin-top: 40px; }
</style>
</head>
<body>
<div class="letterhead">
  <img src="{{.Doc.LogoURL}}" alt="journal logo" style="height:46px">
  <div>
    <div class="journal">{{.Journal.Name}}</div>
    {{if .Journal.ISSN}}<div class="issn">ISSN {{.Journal.ISSN}}</div>{{end}}
  </div>
</div>
<p class="date">{{.Date}}</p>
<h1>Letter of Acceptance</h1>
<p>Dear {{.Addressee}},</p>
<p>We are pleased to inform you that your manuscript listed below has been
reviewed and <b>accepted for publication</b> in <i>{{.Journal.Name}}</i>.</p>
<table class="detail">
  <tr><td>Title:</td><td>{{.Doc.Title}}</td></tr>
  <tr><td>Authors:</td><td>{{.AuthorList}}</td></tr>
  <tr><td>Article type:</td><td>{{.Doc.ArticleType}}</td></tr>
  <tr><td>Volume / Issue:</td><td>Volume {{.Doc.Volume}}, Issue {{.Doc.Issue}} ({{.Doc.Year}})</td></tr>
  <tr><td>DOI:</td><td>{{.Doc.DOI}}</td></tr>
  <tr><td>Received:</td><td>{{.Doc.ReceivedDate}}</td></tr>
  <tr><td>Accepted:</td><td>{{.Doc.AcceptedDate}}</td></tr>
</table>
<p>The article will appear in the issue indicated above. Please cite the
published version using the DOI once it is live.</p>
<p>Thank you for choosing <i>{{.Journal.Name}}</i> to publish your work.</p>
<div class="signature">
  <p>Sincerely,</p>
  <p><b>Editorial Office</b><br>{{.Journal.Name}}</p>
</div>
</body>
</html>
`))

// RenderLetter produces the acceptance letter HTML for a manuscript. The
// addressee is the corresponding author, falling back to the first author.
// The result goes through PDFWriter for delivery.
func RenderLetter(doc *types.Manuscript, journal types.JournalConfig, now time.Time) (string, error) {
	if doc.Title == "" {
		return "", fmt.Errorf("manuscript has no title")
	}
	if len(doc.Authors) == 0 {
		return "", fmt.Errorf("manuscript has no authors")
	}

	addressee := doc.Authors[0].Name
	for _, a := range doc.Authors {
		if a.Corresponding {
			addressee = a.Name
			break
		}
	}

	names := make([]string, len(doc.Authors))
	for i, a := range doc.Authors {
		names[i] = a.Name
	}

	var buf bytes.Buffer
	err := letterTmpl.Execute(&buf, struct {
		Doc        *types.Manuscript
		Journal    types.JournalConfig
		Date       string
		Addressee  string
		AuthorList string
	}{
		Doc:        doc,
		Journal:    journal,
		Date:       now.Format("January 2, 2006"),
		Addressee:  addressee,
		AuthorList: strings.Join(names, ", "),
	})
	if err != nil {
		return "", fmt.Errorf("rendering acceptance letter: %w", err)
	}
	return buf.String(), nil
}
