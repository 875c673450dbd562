package crawl

import (
	"strings"
	"sync"

	"github.com/askcuny/askcuny/bloom"
)

// Link is a frontier entry: a URL and its distance from the seed set.
type Link struct {
	URL   string
	Depth int
}

// Frontier is an in-memory FIFO URL frontier with Bloom filter
// deduplication. FIFO order makes the crawl breadth-first: every page at
// depth n is visited before any page at depth n+1. Safe for concurrent
// use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []Link
}

// NewFrontier creates a Frontier sized for n expected URLs with the
// given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewFilter(n, fpRate),
	}
}

// Push adds a link to the frontier. Returns false if the URL has
// already been seen. Fragments are stripped before deduplication, so
// URLs differing only by fragment are considered duplicates.
func (f *Frontier) Push(link Link) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := link.URL
	if idx := strings.Index(url, "#"); idx != -1 {
		url = url[:idx]
	}

	if f.seen.Test(url) {
		return false
	}
	f.seen.Add(url)

	link.URL = url
	f.queue = append(f.queue, link)
	return true
}

// Pop returns the next link in FIFO order. The bool result is false if
// the frontier is empty.
func (f *Frontier) Pop() (Link, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return Link{}, false
	}
	link := f.queue[0]
	f.queue = f.queue[1:]
	return link, true
}

// Len returns the number of queued links.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}
