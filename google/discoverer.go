// Package google discovers candidate pages through the Google Custom
// Search API.
package google

import (
	"context"

	"github.com/askcuny/askcuny"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// MaxResults is the Custom Search API's per-request ceiling.
const MaxResults = 10

// Ensure Discoverer implements askcuny.Discoverer at compile time.
var _ askcuny.Discoverer = (*Discoverer)(nil)

// Discoverer finds candidate pages via the Google Custom Search API.
// Every query is restricted to the approved site list, and results are
// filtered through the domain scope again before being returned, so a
// misconfigured search engine can never smuggle an off-domain source
// into the pipeline.
type Discoverer struct {
	svc      *customsearch.Service
	engineID string
	scope    *askcuny.Scope
}

// NewDiscoverer creates a Discoverer using the given API key and custom
// search engine ID.
func NewDiscoverer(ctx context.Context, apiKey, engineID string, scope *askcuny.Scope) (*Discoverer, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, askcuny.Errorf(askcuny.EUNAVAILABLE, "creating search service: %v", err)
	}
	return &Discoverer{svc: svc, engineID: engineID, scope: scope}, nil
}

// Discover searches for pages relevant to the query. An API failure
// returns EUNAVAILABLE so the caller can fall back to seed scanning.
func (d *Discoverer) Discover(ctx context.Context, query string, limit int) ([]askcuny.SearchCandidate, error) {
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}

	resp, err := d.svc.Cse.List().
		Context(ctx).
		Cx(d.engineID).
		Q(askcuny.SiteRestriction + " " + query).
		Num(int64(limit)).
		Fields("items(title,link,snippet)").
		Do()
	if err != nil {
		return nil, askcuny.Errorf(askcuny.EUNAVAILABLE, "custom search: %v", err)
	}

	return MapResults(resp.Items, d.scope), nil
}

// MapResults converts raw search results into scope-filtered
// candidates. Split out from Discover so the mapping is testable
// without an API client.
func MapResults(items []*customsearch.Result, scope *askcuny.Scope) []askcuny.SearchCandidate {
	candidates := make([]askcuny.SearchCandidate, 0, len(items))
	for _, item := range items {
		if item == nil || item.Link == "" {
			continue
		}
		if !scope.InScope(item.Link) {
			continue
		}
		candidates = append(candidates, askcuny.SearchCandidate{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Score:   1.0,
		})
	}
	return candidates
}
