// Package search implements page discovery and the query pipeline that
// turns a question into a cited answer.
package search

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/askcuny/askcuny"
)

// DefaultSeedDelay spaces out seed fetches when scanning the curated
// list.
const DefaultSeedDelay = 500 * time.Millisecond

// Ensure SeedDiscoverer implements askcuny.Discoverer at compile time.
var _ askcuny.Discoverer = (*SeedDiscoverer)(nil)

// SeedDiscoverer scores a curated seed list against the query instead
// of calling an external search provider. It fetches each seed, scores
// the page text, and keeps pages above the relevance floor. Individual
// seed failures are skipped; an empty result is valid.
type SeedDiscoverer struct {
	seeds   []string
	robots  askcuny.RobotsPolicy
	fetcher askcuny.Fetcher
	extract askcuny.Extractor
	logger  *slog.Logger
	delay   time.Duration
}

// SeedOption configures a SeedDiscoverer.
type SeedOption func(*SeedDiscoverer)

// WithSeedDelay overrides the pause between seed fetches.
func WithSeedDelay(d time.Duration) SeedOption {
	return func(s *SeedDiscoverer) { s.delay = d }
}

// WithSeedLogger overrides the logger. Defaults to slog.Default.
func WithSeedLogger(logger *slog.Logger) SeedOption {
	return func(s *SeedDiscoverer) { s.logger = logger }
}

// NewSeedDiscoverer creates a SeedDiscoverer over the given seed URLs.
func NewSeedDiscoverer(
	seeds []string,
	robots askcuny.RobotsPolicy,
	fetcher askcuny.Fetcher,
	extract askcuny.Extractor,
	opts ...SeedOption,
) *SeedDiscoverer {
	s := &SeedDiscoverer{
		seeds:   seeds,
		robots:  robots,
		fetcher: fetcher,
		extract: extract,
		logger:  slog.Default(),
		delay:   DefaultSeedDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Discover fetches and scores the seed pages, returning up to limit
// candidates above the relevance floor, best first. Ties keep seed
// order.
func (s *SeedDiscoverer) Discover(ctx context.Context, query string, limit int) ([]askcuny.SearchCandidate, error) {
	var candidates []askcuny.SearchCandidate

	for i, seed := range s.seeds {
		if err := ctx.Err(); err != nil {
			return candidates, err
		}
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return candidates, ctx.Err()
			case <-time.After(s.delay):
			}
		}

		if !s.robots.Allow(ctx, seed) {
			continue
		}

		html, err := s.fetcher.Fetch(ctx, seed)
		if err != nil {
			s.logger.Debug("seed fetch failed", "url", seed, "error", err)
			continue
		}
		snap, err := s.extract.Extract(seed, html)
		if err != nil {
			s.logger.Debug("seed extract failed", "url", seed, "error", err)
			continue
		}

		score := askcuny.PageScore(query, snap.FullText(), seed, snap.Title)
		if score <= askcuny.MinRelevance {
			continue
		}

		snippet := snap.FullText()
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		candidates = append(candidates, askcuny.SearchCandidate{
			Title:   snap.Title,
			URL:     seed,
			Snippet: snippet,
			Score:   score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
