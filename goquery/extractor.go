// Package goquery implements HTML content and link extraction on top of
// the goquery document model.
package goquery

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/askcuny/askcuny"
)

// minSectionLength is the shortest section worth keeping. Shorter
// fragments are navigation crumbs and button labels.
const minSectionLength = 20

// Ensure Extractor implements askcuny.Extractor at compile time.
var _ askcuny.Extractor = (*Extractor)(nil)

// Extractor parses HTML into a structured page snapshot. It drops
// boilerplate regions and keeps headings, paragraphs, list items and
// leaf divs as individually scorable sections.
type Extractor struct {
	now func() time.Time
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithClock overrides the clock used to stamp snapshots. Used in tests.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// kindFor maps an element tag to its section kind. The second result is
// false for tags that are not scorable sections.
func kindFor(tag string) (askcuny.SectionKind, bool) {
	switch tag {
	case "h1":
		return askcuny.KindH1, true
	case "h2":
		return askcuny.KindH2, true
	case "h3":
		return askcuny.KindH3, true
	case "h4":
		return askcuny.KindH4, true
	case "h5":
		return askcuny.KindH5, true
	case "h6":
		return askcuny.KindH6, true
	case "p":
		return askcuny.KindParagraph, true
	case "li":
		return askcuny.KindListItem, true
	case "div":
		return askcuny.KindBlock, true
	}
	return "", false
}

// Extract parses the HTML and returns the page's title and content
// sections in document order.
func (e *Extractor) Extract(url, html string) (*askcuny.PageSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, askcuny.Errorf(askcuny.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("script, style, noscript, header, footer, nav, aside").Remove()

	title := askcuny.CleanText(doc.Find("title").First().Text())

	var sections []askcuny.ContentSection
	seen := make(map[string]bool)

	doc.Find("p, h1, h2, h3, h4, h5, h6, li, div").Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		kind, ok := kindFor(tag)
		if !ok {
			return
		}

		// A div that contains other block elements duplicates their
		// text; keep only leaf divs.
		if kind == askcuny.KindBlock && sel.ChildrenFiltered("p, h1, h2, h3, h4, h5, h6, li, ul, ol, div").Length() > 0 {
			return
		}

		text := askcuny.CleanText(sel.Text())
		if len(text) < minSectionLength || seen[text] {
			return
		}
		seen[text] = true

		sections = append(sections, askcuny.ContentSection{Kind: kind, Text: text})
	})

	return &askcuny.PageSnapshot{
		URL:       url,
		Title:     title,
		Sections:  sections,
		FetchedAt: e.now(),
	}, nil
}
