// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// mdConverter renders HTML body content as Markdown-flavored plain text,
// which preserves heading and table structure for the structuring prompt.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// extractHTML ingests an HTML file: boilerplate (scripts, nav, footer)
// dropped, body converted to text with structure preserved, <img> elements
// collected as figures in document order.
func (p *Pipeline) extractHTML(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading html: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	doc.Find("script, style, noscript, nav, header, footer").Remove()

	src := &Source{}

	// Figures first so img tags can be replaced by nothing in the text pass;
	// ids follow document order.
	doc.Find("img").Each(func(i int, sel *goquery.Selection) {
		srcAttr, ok := sel.Attr("src")
		if !ok || srcAttr == "" {
			return
		}
		id := strconv.Itoa(len(src.Figures) + 1)
		fig := types.Figure{ID: id, FileURL: srcAttr, Caption: "Figure " + id}
		if alt, ok := sel.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			fig.Caption = strings.TrimSpace(alt)
		}
		src.Figures = append(src.Figures, fig)
		sel.Remove()
	})

	body := doc.Find("body")
	bodyHTML, err := body.Html()
	if err != nil || strings.TrimSpace(bodyHTML) == "" {
		bodyHTML = string(data)
	}

	text, err := mdConverter.ConvertString(bodyHTML)
	if err != nil || strings.TrimSpace(text) == "" {
		// Fall back to goquery's flattened text when conversion fails.
		text = body.Text()
	}

	src.RawText = strings.TrimSpace(text)
	return src, nil
}
