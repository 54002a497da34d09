// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Author is one manuscript author in display order.
type Author struct {
	// Name is the author's full name as it appears on the paper.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the author's institution, verbatim. Authors sharing an
	// institution must carry byte-identical strings for deduplication.
	Affiliation string `json:"affiliation" yaml:"affiliation"`

	// Email is optional and shown only for corresponding authors.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Corresponding marks the corresponding author.
	Corresponding bool `json:"is_corresponding,omitempty" yaml:"is_corresponding,omitempty"`
}

// Section is one body section in reading order. Content is raw reconstructed
// text/HTML; it is classified into typed blocks at render time by the layout
// engine, never pre-split in the stored model.
type Section struct {
	// Heading is the section heading (e.g. "2. Materials and Methods").
	Heading string `json:"header" yaml:"header"`

	// Content is the section body with paragraph breaks as doubled newlines
	// or <p> markup, tables as [TABLE]...[/TABLE] rows, math in $...$.
	Content string `json:"body" yaml:"body"`
}

// Figure is an uploaded or embedded image with a stable numeric string id.
// IDs are assigned sequentially from "1" at ingestion time and matched
// against inline citations like "Figure 3" or "Fig. 3".
type Figure struct {
	// ID is the figure number as a string ("1", "2", ...).
	ID string `json:"id" yaml:"id"`

	// FileURL locates the image: a file path, URL, or data URI.
	FileURL string `json:"file_url" yaml:"file_url"`

	// Caption is the figure caption without the "Figure N." prefix.
	Caption string `json:"caption" yaml:"caption"`
}

// Manuscript is the canonical structured representation of one paper.
// A new Manuscript replaces any prior instance on re-import; edits after
// extraction mutate the single live instance through manuscript.Store.
type Manuscript struct {
	// Title is required and non-empty after extraction or manual entry.
	Title string `json:"title" yaml:"title"`

	// ArticleType is the journal article category (e.g. "Original Research Article").
	ArticleType string `json:"article_type" yaml:"article_type"`

	// Authors in display order. At least one element after finalization.
	Authors []Author `json:"authors" yaml:"authors"`

	// Abstract is the abstract body, verbatim.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Keywords in display order, duplicates removed.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Sections in reading order. IMRAD-like but not enforced.
	Sections []Section `json:"content_sections" yaml:"content_sections"`

	// References are free-text bibliography entries in list order.
	References []string `json:"references" yaml:"references"`

	// Figures in upload/extraction order.
	Figures []Figure `json:"figures" yaml:"figures"`

	// Publication metadata. Owned by the finalization step, never by the
	// model-returned JSON, except DOI which extraction may detect.
	DOI           string `json:"doi" yaml:"doi"`
	Volume        string `json:"volume" yaml:"volume"`
	Issue         string `json:"issue" yaml:"issue"`
	Year          string `json:"year" yaml:"year"`
	Pages         string `json:"pages" yaml:"pages"`
	ReceivedDate  string `json:"received_date" yaml:"received_date"`
	AcceptedDate  string `json:"accepted_date" yaml:"accepted_date"`
	PublishedDate string `json:"published_date" yaml:"published_date"`
	LogoURL       string `json:"logo_url" yaml:"logo_url"`
}

// WordText concatenates the textual fields that count toward the integrity
// check: title, abstract, keywords, section bodies, and references. Section
// headings are excluded; they are typographic labels, not reconstructed
// content.
func (m *Manuscript) WordText() string {
	parts := make([]string, 0, 4+len(m.Sections)+len(m.References))
	parts = append(parts, m.Title, m.Abstract)
	parts = append(parts, m.Keywords...)
	for _, s := range m.Sections {
		parts = append(parts, s.Content)
	}
	parts = append(parts, m.References...)
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n"
		}
		out += p
	}
	return out
}

// FigureByID returns the figure with the given numeric string id, or nil.
func (m *Manuscript) FigureByID(id string) *Figure {
	for i := range m.Figures {
		if m.Figures[i].ID == id {
			return &m.Figures[i]
		}
	}
	return nil
}
