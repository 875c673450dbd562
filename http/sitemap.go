package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/askcuny/askcuny"
	"github.com/beevik/etree"
)

// Sitemap discovers additional crawl seeds from a site's sitemap.
// It checks robots.txt for Sitemap: directives, falls back to
// /sitemap.xml, and resolves sitemap indexes recursively. Discovered
// URLs are filtered through the domain scope.
type Sitemap struct {
	client *http.Client
	scope  *askcuny.Scope
}

// NewSitemap creates a Sitemap discoverer. If client is nil,
// http.DefaultClient is used.
func NewSitemap(client *http.Client, scope *askcuny.Scope) *Sitemap {
	if client == nil {
		client = http.DefaultClient
	}
	return &Sitemap{client: client, scope: scope}
}

// DiscoverURLs finds in-scope URLs from the site's sitemap. Returns an
// empty slice (not nil) when no sitemap is found; absence of a sitemap
// is not an error.
func (s *Sitemap) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, askcuny.Errorf(askcuny.EINVALID, "invalid base URL %q: %v", baseURL, err)
	}

	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemapURLs := s.fromRobots(ctx, root.String()+"/robots.txt")
	if len(sitemapURLs) == 0 {
		sitemapURLs = []string{root.String() + "/sitemap.xml"}
	}

	var urls []string
	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)
	for _, su := range sitemapURLs {
		found, err := s.process(ctx, su, seenSitemaps)
		if err != nil {
			// A missing or malformed sitemap narrows discovery, it
			// never fails the crawl.
			continue
		}
		for _, u := range found {
			if seenURLs[u] || !s.scope.InScope(u) {
				continue
			}
			seenURLs[u] = true
			urls = append(urls, u)
		}
	}

	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}

// fromRobots extracts Sitemap: directives from robots.txt.
func (s *Sitemap) fromRobots(ctx context.Context, robotsURL string) []string {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
				sitemaps = append(sitemaps, u)
			}
		}
	}
	return sitemaps
}

// process fetches one sitemap and returns its URLs, recursing into
// sitemap indexes.
func (s *Sitemap) process(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, askcuny.Errorf(askcuny.EUNAVAILABLE, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, askcuny.Errorf(askcuny.EUNAVAILABLE, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		var urls []string
		for _, sm := range root.SelectElements("sitemap") {
			loc := sm.SelectElement("loc")
			if loc == nil {
				continue
			}
			child := strings.TrimSpace(loc.Text())
			if child == "" {
				continue
			}
			found, err := s.process(ctx, child, seen)
			if err != nil {
				continue
			}
			urls = append(urls, found...)
		}
		return urls, nil
	}

	var urls []string
	for _, u := range root.SelectElements("url") {
		loc := u.SelectElement("loc")
		if loc == nil {
			continue
		}
		if text := strings.TrimSpace(loc.Text()); text != "" {
			urls = append(urls, text)
		}
	}
	return urls, nil
}

func (s *Sitemap) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, askcuny.Errorf(askcuny.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", askcuny.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, askcuny.Errorf(askcuny.EUNAVAILABLE, "fetch %s: %v", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, askcuny.Errorf(askcuny.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	}
	return resp.Body, nil
}
