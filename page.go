package askcuny

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// SectionKind identifies the source markup element of a content section.
type SectionKind string

// Section kinds, named after the HTML tags they originate from.
const (
	KindH1        SectionKind = "h1"
	KindH2        SectionKind = "h2"
	KindH3        SectionKind = "h3"
	KindH4        SectionKind = "h4"
	KindH5        SectionKind = "h5"
	KindH6        SectionKind = "h6"
	KindParagraph SectionKind = "p"
	KindListItem  SectionKind = "li"
	KindBlock     SectionKind = "div"
)

// HeadingLevel returns the heading level 1-6, or 0 for non-heading kinds.
func (k SectionKind) HeadingLevel() int {
	switch k {
	case KindH1:
		return 1
	case KindH2:
		return 2
	case KindH3:
		return 3
	case KindH4:
		return 4
	case KindH5:
		return 5
	case KindH6:
		return 6
	}
	return 0
}

// ContentSection is one cleaned segment of a fetched page.
// Score is recomputed per query; everything else is immutable.
type ContentSection struct {
	Kind  SectionKind `json:"kind"`
	Text  string      `json:"text"`
	Score float64     `json:"score"`
}

// PageSnapshot is a structured capture of a fetched page. Snapshots are
// immutable after creation and replaced, never mutated, on re-fetch.
type PageSnapshot struct {
	URL       string           `json:"url"`
	Title     string           `json:"title"`
	Sections  []ContentSection `json:"sections"`
	FetchedAt time.Time        `json:"fetchedAt"`
}

// FullText returns all section texts joined by single spaces.
func (p *PageSnapshot) FullText() string {
	texts := make([]string, 0, len(p.Sections))
	for _, s := range p.Sections {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, " ")
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// CleanText collapses all whitespace runs to single spaces and trims.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// Fetcher retrieves raw HTML from a URL.
// Implementations must not follow redirects and must identify themselves
// with UserAgent.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (html string, err error)
}

// Extractor turns raw HTML into a structured page snapshot.
type Extractor interface {
	// Extract strips non-content elements and segments the remaining
	// document into sections. Returns EUNAVAILABLE if the markup cannot
	// be parsed.
	Extract(url, html string) (*PageSnapshot, error)
}

// LinkExtractor discovers outbound links in an HTML document.
type LinkExtractor interface {
	// Links resolves every anchor against baseURL and returns absolute
	// URLs with fragments stripped. Non-HTTP schemes are skipped.
	Links(html, baseURL string) ([]string, error)
}

// RobotsPolicy reports whether a URL may be fetched under the target
// site's crawl policy. Implementations decide how a robots.txt fetch
// failure is treated; the crawler and the discovery path use different
// failure defaults on purpose.
type RobotsPolicy interface {
	Allow(ctx context.Context, url string) bool
}

// SnapshotCache stores the url to full-text mapping of a completed crawl.
// Only one writer (a completed crawl) should replace the cache at a time;
// readers always observe a full-or-nothing snapshot.
type SnapshotCache interface {
	// Load returns the stored mapping, or ok=false if no entry exists,
	// the entry is stale, or the entry is unreadable.
	Load(ctx context.Context) (content map[string]string, ok bool, err error)

	// Save atomically replaces any prior entry with the given mapping
	// and a fresh timestamp. Entries are never partially merged.
	Save(ctx context.Context, content map[string]string) error
}
