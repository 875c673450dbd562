package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/askcuny/askcuny"
)

// Ensure Links implements askcuny.LinkExtractor at compile time.
var _ askcuny.LinkExtractor = (*Links)(nil)

// Links extracts anchor hrefs from HTML for crawl frontier expansion.
type Links struct{}

// NewLinks creates a new link extractor.
func NewLinks() *Links {
	return &Links{}
}

// Links returns the absolute URLs of every HTTP anchor in the document,
// resolved against baseURL, deduplicated, in document order. Fragments
// are stripped and self-referential links are dropped.
func (l *Links) Links(html, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, askcuny.Errorf(askcuny.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, askcuny.Errorf(askcuny.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL resolves a relative href against the base URL. Returns the
// empty string for unparseable hrefs, non-HTTP schemes, and links that
// resolve back to the base page itself. Fragments are stripped for
// deduplication.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink reports whether a href uses a scheme that should be
// skipped outright.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
