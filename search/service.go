package search

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/askcuny/askcuny"
	"golang.org/x/sync/errgroup"
)

// Pipeline limits.
const (
	// MaxCandidates bounds how many discovered pages are inspected per
	// query.
	MaxCandidates = 5

	// MaxSectionsPerPage bounds how many ranked sections are considered
	// from a single page.
	MaxSectionsPerPage = 3

	// MaxSnippets bounds how many snippets enter answer assembly.
	MaxSnippets = 5

	// DefaultPageDelay spaces out candidate page fetches.
	DefaultPageDelay = 500 * time.Millisecond
)

// Service runs the full query pipeline: discover candidate pages,
// inspect them under domain and robots policy, extract grounded
// snippets, and synthesize a cited answer. Every pipeline failure
// degrades to a structured response; Answer never returns an error for
// an unanswerable query.
type Service struct {
	primary  askcuny.Discoverer // external provider, may be nil
	fallback askcuny.Discoverer
	scope    *askcuny.Scope
	robots   askcuny.RobotsPolicy
	fetcher  askcuny.Fetcher
	extract  askcuny.Extractor
	synth    askcuny.Synthesizer
	logger   *slog.Logger

	concurrency int
	pageDelay   time.Duration
	now         func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithPrimaryDiscoverer sets the external search provider tried before
// the seed fallback.
func WithPrimaryDiscoverer(d askcuny.Discoverer) ServiceOption {
	return func(s *Service) { s.primary = d }
}

// WithConcurrency sets how many candidate pages are inspected in
// parallel. Defaults to 1, which keeps snippet order deterministic and
// fetch pacing sequential.
func WithConcurrency(n int) ServiceOption {
	return func(s *Service) { s.concurrency = n }
}

// WithPageDelay overrides the pause between candidate page fetches.
func WithPageDelay(d time.Duration) ServiceOption {
	return func(s *Service) { s.pageDelay = d }
}

// WithLogger overrides the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the clock used to stamp responses. Used in tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates the query pipeline service.
func NewService(
	fallback askcuny.Discoverer,
	scope *askcuny.Scope,
	robots askcuny.RobotsPolicy,
	fetcher askcuny.Fetcher,
	extract askcuny.Extractor,
	synth askcuny.Synthesizer,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		fallback:    fallback,
		scope:       scope,
		robots:      robots,
		fetcher:     fetcher,
		extract:     extract,
		synth:       synth,
		logger:      slog.Default(),
		concurrency: 1,
		pageDelay:   DefaultPageDelay,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer runs the pipeline for one query and always returns a
// structured response. The method field records how the answer was
// produced: live_search for a synthesized answer, fallback when no
// information was found, error when synthesis failed.
func (s *Service) Answer(ctx context.Context, query string) (*askcuny.Response, error) {
	if query == "" {
		return nil, askcuny.Errorf(askcuny.EINVALID, "query required")
	}

	candidates := s.discover(ctx, query)
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	snippets := s.inspect(ctx, query, candidates)
	if len(snippets) == 0 {
		return askcuny.NoInformationResponse(query, s.now()), nil
	}

	contextText, citations := askcuny.BuildContext(snippets)

	answer, err := s.synth.Synthesize(ctx, query, contextText)
	if err != nil {
		s.logger.Error("synthesis failed", "error", err)
		return &askcuny.Response{
			Answer: "I'm having trouble generating an answer right now. " +
				"Please try again in a moment.",
			Sources:   []askcuny.Citation{},
			Method:    askcuny.MethodError,
			Timestamp: s.now(),
			Success:   false,
		}, nil
	}

	return &askcuny.Response{
		Answer:    answer,
		Sources:   citations,
		Method:    askcuny.MethodLiveSearch,
		Timestamp: s.now(),
		Success:   true,
	}, nil
}

// discover tries the external provider first and falls back to seed
// scanning when the provider fails or finds nothing.
func (s *Service) discover(ctx context.Context, query string) []askcuny.SearchCandidate {
	if s.primary != nil {
		candidates, err := s.primary.Discover(ctx, query, MaxCandidates)
		if err == nil && len(candidates) > 0 {
			return candidates
		}
		if err != nil {
			s.logger.Warn("discovery provider failed, falling back to seeds", "error", err)
		}
	}

	candidates, err := s.fallback.Discover(ctx, query, MaxCandidates)
	if err != nil {
		s.logger.Warn("seed discovery failed", "error", err)
		return nil
	}
	return candidates
}

// inspect fetches the candidate pages and extracts snippets. Candidates
// are processed concurrently up to the configured limit; results are
// merged in candidate order so the pipeline stays deterministic, then
// sorted by score.
func (s *Service) inspect(ctx context.Context, query string, candidates []askcuny.SearchCandidate) []askcuny.Snippet {
	perCandidate := make([][]askcuny.Snippet, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.concurrency))

	for i, cand := range candidates {
		g.Go(func() error {
			perCandidate[i] = s.inspectPage(gctx, query, cand)
			if s.pageDelay > 0 {
				select {
				case <-gctx.Done():
				case <-time.After(s.pageDelay):
				}
			}
			return nil
		})
	}
	// Workers never return errors; page failures already degraded to
	// empty slots.
	_ = g.Wait()

	var snippets []askcuny.Snippet
	for _, batch := range perCandidate {
		snippets = append(snippets, batch...)
	}
	sort.SliceStable(snippets, func(i, j int) bool {
		return snippets[i].Score > snippets[j].Score
	})
	if len(snippets) > MaxSnippets {
		snippets = snippets[:MaxSnippets]
	}
	return snippets
}

// inspectPage applies policy to one candidate, fetches it, and extracts
// snippets. Any failure yields an empty result, never an error.
func (s *Service) inspectPage(ctx context.Context, query string, cand askcuny.SearchCandidate) []askcuny.Snippet {
	if !s.scope.InScope(cand.URL) {
		s.logger.Debug("candidate out of scope", "url", cand.URL)
		return nil
	}
	if !s.robots.Allow(ctx, cand.URL) {
		s.logger.Debug("candidate denied by robots", "url", cand.URL)
		return nil
	}

	html, err := s.fetcher.Fetch(ctx, cand.URL)
	if err != nil {
		s.logger.Debug("candidate fetch failed", "url", cand.URL, "error", err)
		return nil
	}
	snap, err := s.extract.Extract(cand.URL, html)
	if err != nil {
		s.logger.Debug("candidate extract failed", "url", cand.URL, "error", err)
		return nil
	}

	// The typed extractor scans every section of the page; the ranker
	// contributes the most relevant sections alongside. Both kinds feed
	// the merged list, so a low-ranking section that carries a typed
	// fact still reaches assembly.
	items := askcuny.ExtractTyped(query, snap)
	ranked := askcuny.RankSections(query, snap.Sections)
	if len(ranked) > MaxSectionsPerPage {
		ranked = ranked[:MaxSectionsPerPage]
	}

	snippets := make([]askcuny.Snippet, 0, len(items)+len(ranked))
	for _, it := range items {
		snippets = append(snippets, it.Snippet())
	}
	for _, sec := range ranked {
		snippets = append(snippets, askcuny.Snippet{
			Text:       sec.Text,
			URL:        snap.URL,
			Title:      snap.Title,
			Score:      sec.Score,
			Provenance: askcuny.ProvenanceRanked,
		})
	}
	return snippets
}
