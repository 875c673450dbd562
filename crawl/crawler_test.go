package crawl_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/askcuny/askcuny"
	"github.com/askcuny/askcuny/crawl"
	"github.com/askcuny/askcuny/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSite wires the crawler's collaborators around an in-memory page
// graph. Fetches are recorded; the saved snapshot is captured.
type fakeSite struct {
	mu      sync.Mutex
	pages   map[string]fakePage // url -> page
	fetched []string
	saved   map[string]string
}

type fakePage struct {
	text  string
	links []string
}

func newFakeSite(pages map[string]fakePage) *fakeSite {
	return &fakeSite{pages: pages}
}

func (s *fakeSite) fetcher() *mock.Fetcher {
	return &mock.Fetcher{FetchFn: func(_ context.Context, url string) (string, error) {
		s.mu.Lock()
		s.fetched = append(s.fetched, url)
		s.mu.Unlock()
		page, ok := s.pages[url]
		if !ok {
			return "", askcuny.Errorf(askcuny.EUNAVAILABLE, "HTTP 404 for %s", url)
		}
		return page.text, nil
	}}
}

func (s *fakeSite) extractor() *mock.Extractor {
	return &mock.Extractor{ExtractFn: func(url, html string) (*askcuny.PageSnapshot, error) {
		var sections []askcuny.ContentSection
		if html != "" {
			sections = []askcuny.ContentSection{{Kind: askcuny.KindParagraph, Text: html}}
		}
		return &askcuny.PageSnapshot{URL: url, Sections: sections}, nil
	}}
}

func (s *fakeSite) linker() *mock.LinkExtractor {
	return &mock.LinkExtractor{LinksFn: func(_, baseURL string) ([]string, error) {
		return s.pages[baseURL].links, nil
	}}
}

func (s *fakeSite) cache() *mock.SnapshotCache {
	return &mock.SnapshotCache{
		LoadFn: func(context.Context) (map[string]string, bool, error) { return nil, false, nil },
		SaveFn: func(_ context.Context, content map[string]string) error {
			s.saved = content
			return nil
		},
	}
}

func cunyScope(t *testing.T) *askcuny.Scope {
	t.Helper()
	scope, err := askcuny.NewScope([]string{`.*\.cuny\.edu`, `cuny\.edu`}, nil)
	require.NoError(t, err)
	return scope
}

func TestCrawler_BreadthFirst(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]fakePage{
		"https://www.cuny.edu/": {
			text:  "CUNY is the City University of New York with 25 colleges.",
			links: []string{"https://www.cuny.edu/a/", "https://www.cuny.edu/b/"},
		},
		"https://www.cuny.edu/a/": {
			text:  "Admissions information for first-year applicants.",
			links: []string{"https://www.cuny.edu/a/deep/"},
		},
		"https://www.cuny.edu/b/": {
			text: "Tuition is $3465 per semester for in-state students.",
		},
		"https://www.cuny.edu/a/deep/": {
			text: "Deadlines for the fall application cycle.",
		},
	})

	c := crawl.NewCrawler(cunyScope(t), mock.AllowAll(), site.fetcher(),
		site.extractor(), site.linker(), site.cache(),
		crawl.WithRPS(1000))

	result, err := c.Crawl(context.Background(), []string{"https://www.cuny.edu/"})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Saved)
	assert.Equal(t, 0, result.Failed)

	// Both depth-1 pages come before the depth-2 page.
	require.Len(t, site.fetched, 4)
	assert.Equal(t, "https://www.cuny.edu/", site.fetched[0])
	assert.Equal(t, "https://www.cuny.edu/a/deep/", site.fetched[3])

	require.NotNil(t, site.saved)
	assert.Len(t, site.saved, 4)
	assert.Contains(t, site.saved["https://www.cuny.edu/b/"], "$3465")
}

func TestCrawler_RespectsMaxDepth(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]fakePage{
		"https://www.cuny.edu/": {
			text:  "Depth zero page content for the crawl.",
			links: []string{"https://www.cuny.edu/d1/"},
		},
		"https://www.cuny.edu/d1/": {
			text:  "Depth one page content for the crawl.",
			links: []string{"https://www.cuny.edu/d2/"},
		},
		"https://www.cuny.edu/d2/": {
			text: "Depth two page that must not be fetched.",
		},
	})

	c := crawl.NewCrawler(cunyScope(t), mock.AllowAll(), site.fetcher(),
		site.extractor(), site.linker(), site.cache(),
		crawl.WithMaxDepth(1), crawl.WithRPS(1000))

	result, err := c.Crawl(context.Background(), []string{"https://www.cuny.edu/"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Saved)
	assert.NotContains(t, site.fetched, "https://www.cuny.edu/d2/")
}

func TestCrawler_RespectsMaxPages(t *testing.T) {
	t.Parallel()

	pages := make(map[string]fakePage)
	var links []string
	for i := range 20 {
		url := fmt.Sprintf("https://www.cuny.edu/page-%d/", i)
		links = append(links, url)
		pages[url] = fakePage{text: fmt.Sprintf("Content of page number %d in the crawl.", i)}
	}
	pages["https://www.cuny.edu/"] = fakePage{text: "Hub page linking everywhere.", links: links}
	site := newFakeSite(pages)

	c := crawl.NewCrawler(cunyScope(t), mock.AllowAll(), site.fetcher(),
		site.extractor(), site.linker(), site.cache(),
		crawl.WithMaxPages(5), crawl.WithRPS(1000))

	result, err := c.Crawl(context.Background(), []string{"https://www.cuny.edu/"})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Saved)
	assert.Len(t, site.saved, 5)
}

func TestCrawler_SkipsOutOfScopeAndRobotsDenied(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]fakePage{
		"https://www.cuny.edu/": {
			text: "In-scope page that passes all the checks.",
			links: []string{
				"https://evil.example.com/",
				"https://www.cuny.edu/private/",
			},
		},
		"https://www.cuny.edu/private/": {
			text: "Disallowed page that must not be fetched.",
		},
	})

	robots := &mock.RobotsPolicy{AllowFn: func(_ context.Context, url string) bool {
		return !strings.Contains(url, "/private/")
	}}

	c := crawl.NewCrawler(cunyScope(t), robots, site.fetcher(),
		site.extractor(), site.linker(), site.cache(),
		crawl.WithRPS(1000))

	result, err := c.Crawl(context.Background(), []string{"https://www.cuny.edu/"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, result.Skipped)
	assert.NotContains(t, site.fetched, "https://evil.example.com/")
	assert.NotContains(t, site.fetched, "https://www.cuny.edu/private/")
}

func TestCrawler_FetchFailureSkipsAndContinues(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]fakePage{
		"https://www.cuny.edu/ok/": {
			text: "A page that fetches without any problem.",
		},
	})

	c := crawl.NewCrawler(cunyScope(t), mock.AllowAll(), site.fetcher(),
		site.extractor(), site.linker(), site.cache(),
		crawl.WithRPS(1000))

	result, err := c.Crawl(context.Background(), []string{
		"https://www.cuny.edu/broken/",
		"https://www.cuny.edu/ok/",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, site.saved, "https://www.cuny.edu/ok/")
}

func TestCrawler_DeduplicatesIdenticalContent(t *testing.T) {
	t.Parallel()

	const mirror = "The exact same body text served from two different URLs."
	site := newFakeSite(map[string]fakePage{
		"https://www.cuny.edu/a/": {text: mirror},
		"https://www.cuny.edu/b/": {text: mirror},
	})

	c := crawl.NewCrawler(cunyScope(t), mock.AllowAll(), site.fetcher(),
		site.extractor(), site.linker(), site.cache(),
		crawl.WithRPS(1000))

	result, err := c.Crawl(context.Background(), []string{
		"https://www.cuny.edu/a/",
		"https://www.cuny.edu/b/",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, result.Skipped)
}

func TestCrawler_FreshSnapshotShortCircuits(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]fakePage{
		"https://www.cuny.edu/": {
			text: "Tuition is $3465 per semester for in-state students.",
		},
	})

	// Stateful cache: Save stores the snapshot, Load reports it fresh.
	var stored map[string]string
	cache := &mock.SnapshotCache{
		LoadFn: func(context.Context) (map[string]string, bool, error) {
			return stored, stored != nil, nil
		},
		SaveFn: func(_ context.Context, content map[string]string) error {
			stored = content
			return nil
		},
	}

	c := crawl.NewCrawler(cunyScope(t), mock.AllowAll(), site.fetcher(),
		site.extractor(), site.linker(), cache,
		crawl.WithRPS(1000))

	first, err := c.Crawl(context.Background(), []string{"https://www.cuny.edu/"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Saved)
	assert.False(t, first.FromCache)

	second, err := c.Crawl(context.Background(), []string{"https://www.cuny.edu/"})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, second.Saved)

	// The second crawl must not touch the network.
	assert.Len(t, site.fetched, 1)
}

func TestCrawler_EmptyCrawlKeepsPreviousSnapshot(t *testing.T) {
	t.Parallel()

	// Every fetch fails: the page map is empty.
	site := newFakeSite(map[string]fakePage{})

	var saves int
	cache := &mock.SnapshotCache{
		LoadFn: func(context.Context) (map[string]string, bool, error) { return nil, false, nil },
		SaveFn: func(context.Context, map[string]string) error {
			saves++
			return nil
		},
	}

	c := crawl.NewCrawler(cunyScope(t), mock.AllowAll(), site.fetcher(),
		site.extractor(), site.linker(), cache,
		crawl.WithRPS(1000))

	result, err := c.Crawl(context.Background(), []string{"https://www.cuny.edu/"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Zero(t, result.Saved)
	assert.Zero(t, saves, "an empty crawl must not overwrite the snapshot")
}

func TestFrontier_DeduplicatesAndStripsFragments(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(100, 0.01)

	assert.True(t, f.Push(crawl.Link{URL: "https://www.cuny.edu/tuition/"}))
	assert.False(t, f.Push(crawl.Link{URL: "https://www.cuny.edu/tuition/#rates"}))
	assert.Equal(t, 1, f.Len())

	link, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://www.cuny.edu/tuition/", link.URL)

	_, ok = f.Pop()
	assert.False(t, ok)
}
