package askcuny

import "context"

// SearchCandidate is a page proposed for inspection by a discovery
// strategy. Candidates are transient: produced by a Discoverer and
// consumed immediately by the query pipeline.
type SearchCandidate struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"relevanceScore"`
}

// Discoverer produces a ranked candidate list of pages to inspect for a
// query. Implementations hide the choice between an external search
// provider and the built-in heuristic scorer over curated seeds.
type Discoverer interface {
	// Discover returns up to limit candidates ordered by descending
	// relevance. A total discovery failure returns EUNAVAILABLE so the
	// caller can fall back to another strategy; an empty (but valid)
	// result is not an error.
	Discover(ctx context.Context, query string, limit int) ([]SearchCandidate, error)
}
