// Package mock provides function-field mock implementations of the
// domain interfaces for testing.
package mock

import (
	"context"
	"time"

	"github.com/askcuny/askcuny"
)

// Compile-time interface verification.
var (
	_ askcuny.Fetcher       = (*Fetcher)(nil)
	_ askcuny.Extractor     = (*Extractor)(nil)
	_ askcuny.LinkExtractor = (*LinkExtractor)(nil)
	_ askcuny.RobotsPolicy  = (*RobotsPolicy)(nil)
	_ askcuny.SnapshotCache = (*SnapshotCache)(nil)
	_ askcuny.Discoverer    = (*Discoverer)(nil)
	_ askcuny.Synthesizer   = (*Synthesizer)(nil)
)

// Fetcher is a mock implementation of askcuny.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (m *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return m.FetchFn(ctx, url)
}

// Extractor is a mock implementation of askcuny.Extractor.
type Extractor struct {
	ExtractFn func(url, html string) (*askcuny.PageSnapshot, error)
}

func (m *Extractor) Extract(url, html string) (*askcuny.PageSnapshot, error) {
	return m.ExtractFn(url, html)
}

// LinkExtractor is a mock implementation of askcuny.LinkExtractor.
type LinkExtractor struct {
	LinksFn func(html, baseURL string) ([]string, error)
}

func (m *LinkExtractor) Links(html, baseURL string) ([]string, error) {
	return m.LinksFn(html, baseURL)
}

// RobotsPolicy is a mock implementation of askcuny.RobotsPolicy.
type RobotsPolicy struct {
	AllowFn func(ctx context.Context, url string) bool
}

func (m *RobotsPolicy) Allow(ctx context.Context, url string) bool {
	return m.AllowFn(ctx, url)
}

// AllowAll returns a RobotsPolicy that permits every URL.
func AllowAll() *RobotsPolicy {
	return &RobotsPolicy{AllowFn: func(context.Context, string) bool { return true }}
}

// SnapshotCache is a mock implementation of askcuny.SnapshotCache.
type SnapshotCache struct {
	LoadFn func(ctx context.Context) (map[string]string, bool, error)
	SaveFn func(ctx context.Context, content map[string]string) error
}

func (m *SnapshotCache) Load(ctx context.Context) (map[string]string, bool, error) {
	return m.LoadFn(ctx)
}

func (m *SnapshotCache) Save(ctx context.Context, content map[string]string) error {
	return m.SaveFn(ctx, content)
}

// Discoverer is a mock implementation of askcuny.Discoverer.
type Discoverer struct {
	DiscoverFn func(ctx context.Context, query string, limit int) ([]askcuny.SearchCandidate, error)
}

func (m *Discoverer) Discover(ctx context.Context, query string, limit int) ([]askcuny.SearchCandidate, error) {
	return m.DiscoverFn(ctx, query, limit)
}

// Synthesizer is a mock implementation of askcuny.Synthesizer.
type Synthesizer struct {
	SynthesizeFn func(ctx context.Context, query, context string) (string, error)
}

func (m *Synthesizer) Synthesize(ctx context.Context, query, contextText string) (string, error) {
	return m.SynthesizeFn(ctx, query, contextText)
}

// Clock returns a clock function frozen at t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
