// Package robotstxt evaluates robots.txt crawl permissions for the
// pipeline's fixed client identity.
package robotstxt

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/askcuny/askcuny"
	"github.com/temoto/robotstxt"
)

// DefaultFetchTimeout bounds the robots.txt fetch itself.
const DefaultFetchTimeout = 10 * time.Second

// FailureMode selects how a robots.txt fetch failure is treated. The two
// call sites of the pipeline diverge on purpose: the crawler fails
// closed, the discovery and extraction path falls back to scope
// membership. Keep both; unify only as a deliberate operator choice.
type FailureMode int

// Failure modes.
const (
	// FailClosed denies every URL whose robots.txt cannot be fetched.
	FailClosed FailureMode = iota

	// FailOpenInScope allows a URL whose robots.txt cannot be fetched
	// as long as the URL is in scope.
	FailOpenInScope
)

// Ensure Checker implements askcuny.RobotsPolicy at compile time.
var _ askcuny.RobotsPolicy = (*Checker)(nil)

// Checker fetches and evaluates robots.txt files, memoizing one result
// per host. Safe for concurrent use.
type Checker struct {
	client *http.Client
	scope  *askcuny.Scope
	mode   FailureMode
	agent  string

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData // nil entry records a fetch failure
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient overrides the HTTP client used to fetch robots.txt.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) { c.client = client }
}

// WithAgent overrides the client token evaluated against robots
// directives. Defaults to askcuny.UserAgent.
func WithAgent(agent string) Option {
	return func(c *Checker) { c.agent = agent }
}

// NewChecker creates a Checker with the given scope and failure mode.
func NewChecker(scope *askcuny.Scope, mode FailureMode, opts ...Option) *Checker {
	c := &Checker{
		client: &http.Client{Timeout: DefaultFetchTimeout},
		scope:  scope,
		mode:   mode,
		agent:  askcuny.UserAgent,
		hosts:  make(map[string]*robotstxt.RobotsData),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Allow reports whether the URL may be fetched. A malformed URL is
// always denied. When the robots.txt file itself cannot be retrieved the
// configured FailureMode decides.
func (c *Checker) Allow(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	data, fetched := c.robots(ctx, u)
	if !fetched {
		if c.mode == FailClosed {
			return false
		}
		return c.scope.InScope(rawURL)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, c.agent)
}

// robots returns the parsed robots.txt for the URL's host, fetching it
// on first use. The second result is false if the fetch failed.
func (c *Checker) robots(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, bool) {
	key := u.Scheme + "://" + u.Host

	c.mu.Lock()
	data, ok := c.hosts[key]
	c.mu.Unlock()
	if ok {
		return data, data != nil
	}

	data = c.fetch(ctx, key+"/robots.txt")

	c.mu.Lock()
	c.hosts[key] = data
	c.mu.Unlock()

	return data, data != nil
}

func (c *Checker) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.agent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	// FromResponse applies the standard status-code semantics: 4xx
	// allows everything, 5xx disallows everything.
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data
}
