// Package crawl implements the breadth-first site crawler that builds
// the page content snapshot.
package crawl

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/askcuny/askcuny"
	"github.com/cespare/xxhash/v2"
)

// Crawl limits.
const (
	DefaultMaxDepth = 3
	DefaultMaxPages = 500
	DefaultRPS      = 1.0
)

// Result summarizes a completed crawl.
type Result struct {
	Saved     int  // pages fetched, extracted and stored
	Failed    int  // pages that errored during fetch or extraction
	Skipped   int  // pages denied by scope, robots, or duplicate content
	FromCache bool // a fresh snapshot already existed; nothing was fetched
}

// Crawler performs a breadth-first crawl of the in-scope web starting
// from a seed list. Pages denied by robots.txt are never fetched; the
// crawler fails closed when a robots.txt file cannot be retrieved. Fetch
// and parse errors skip the page and continue. The accumulated page
// text is persisted through the snapshot cache on completion.
type Crawler struct {
	scope   *askcuny.Scope
	robots  askcuny.RobotsPolicy
	fetcher askcuny.Fetcher
	extract askcuny.Extractor
	links   askcuny.LinkExtractor
	cache   askcuny.SnapshotCache
	limiter *DomainLimiter
	logger  *slog.Logger

	maxDepth int
	maxPages int
}

// CrawlerOption configures a Crawler.
type CrawlerOption func(*Crawler)

// WithMaxDepth overrides the maximum link distance from the seeds.
func WithMaxDepth(depth int) CrawlerOption {
	return func(c *Crawler) { c.maxDepth = depth }
}

// WithMaxPages overrides the total page budget.
func WithMaxPages(pages int) CrawlerOption {
	return func(c *Crawler) { c.maxPages = pages }
}

// WithRPS overrides the per-domain request rate.
func WithRPS(rps float64) CrawlerOption {
	return func(c *Crawler) { c.limiter = NewDomainLimiter(rps) }
}

// WithLogger overrides the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) CrawlerOption {
	return func(c *Crawler) { c.logger = logger }
}

// NewCrawler creates a Crawler wired to the given collaborators.
func NewCrawler(
	scope *askcuny.Scope,
	robots askcuny.RobotsPolicy,
	fetcher askcuny.Fetcher,
	extract askcuny.Extractor,
	links askcuny.LinkExtractor,
	cache askcuny.SnapshotCache,
	opts ...CrawlerOption,
) *Crawler {
	c := &Crawler{
		scope:    scope,
		robots:   robots,
		fetcher:  fetcher,
		extract:  extract,
		links:    links,
		cache:    cache,
		limiter:  NewDomainLimiter(DefaultRPS),
		logger:   slog.Default(),
		maxDepth: DefaultMaxDepth,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl walks the web breadth-first from the seeds, respecting scope,
// robots.txt, depth and page limits, and saves the collected page text
// through the cache. A fresh cached snapshot short-circuits the crawl
// without any network traffic. Individual page failures are logged and
// skipped; only context cancellation and a failed save abort the crawl.
func (c *Crawler) Crawl(ctx context.Context, seeds []string) (*Result, error) {
	if cached, ok, err := c.cache.Load(ctx); err != nil {
		c.logger.Warn("snapshot load failed, recrawling", "error", err)
	} else if ok {
		c.logger.Info("snapshot is fresh, skipping crawl", "pages", len(cached))
		return &Result{Saved: len(cached), FromCache: true}, nil
	}

	frontier := NewFrontier(uint(c.maxPages)*10, 0.01)
	for _, seed := range seeds {
		frontier.Push(Link{URL: seed, Depth: 0})
	}

	// The Bloom filter admits rare false positives; the exact visited
	// set guarantees no page is fetched twice.
	visited := make(map[string]bool)
	contentHashes := make(map[uint64]bool)
	content := make(map[string]string)

	result := &Result{}

	for link, ok := frontier.Pop(); ok; link, ok = frontier.Pop() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if len(content) >= c.maxPages {
			break
		}
		if visited[link.URL] {
			continue
		}
		visited[link.URL] = true

		if !c.scope.InScope(link.URL) {
			result.Skipped++
			continue
		}
		if !c.robots.Allow(ctx, link.URL) {
			c.logger.Debug("robots denied", "url", link.URL)
			result.Skipped++
			continue
		}

		u, err := url.Parse(link.URL)
		if err != nil {
			result.Skipped++
			continue
		}
		if err := c.limiter.Wait(ctx, u.Hostname()); err != nil {
			return result, err
		}

		html, err := c.fetcher.Fetch(ctx, link.URL)
		if err != nil {
			c.logger.Warn("fetch failed", "url", link.URL, "error", err)
			result.Failed++
			continue
		}

		snap, err := c.extract.Extract(link.URL, html)
		if err != nil {
			c.logger.Warn("extract failed", "url", link.URL, "error", err)
			result.Failed++
			continue
		}

		text := snap.FullText()
		if text == "" {
			result.Skipped++
			continue
		}

		// Mirror pages and URL aliases produce byte-identical text;
		// keep only the first copy.
		hash := xxhash.Sum64String(text)
		if contentHashes[hash] {
			result.Skipped++
			continue
		}
		contentHashes[hash] = true

		content[link.URL] = text
		result.Saved++
		c.logger.Info("page saved", "url", link.URL, "depth", link.Depth, "sections", len(snap.Sections))

		if link.Depth >= c.maxDepth {
			continue
		}
		outlinks, err := c.links.Links(html, link.URL)
		if err != nil {
			continue
		}
		for _, out := range outlinks {
			if c.scope.InScope(out) {
				frontier.Push(Link{URL: out, Depth: link.Depth + 1})
			}
		}
	}

	// A crawl that produced nothing keeps whatever snapshot is already
	// on disk.
	if len(content) == 0 {
		c.logger.Warn("no pages collected, keeping previous snapshot")
		return result, nil
	}
	if err := c.cache.Save(ctx, content); err != nil {
		return result, askcuny.Errorf(askcuny.EINTERNAL, "saving crawl snapshot: %v", err)
	}
	return result, nil
}
