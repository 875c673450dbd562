// Package http provides the HTTP implementation of askcuny.Fetcher and
// sitemap-based URL discovery for bulk crawls.
package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/askcuny/askcuny"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements askcuny.Fetcher at compile time.
var _ askcuny.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content over plain HTTP. Redirects are not
// followed: a redirect response surfaces as a non-2xx status and the
// page is skipped, which keeps every fetched URL one that passed policy
// checks verbatim.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	agent   string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithAgent overrides the User-Agent header.
// Defaults to askcuny.UserAgent.
func WithAgent(agent string) Option {
	return func(f *Fetcher) { f.agent = agent }
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		agent:   askcuny.UserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return f
}

// Fetch retrieves the HTML content from the given URL. Non-2xx statuses
// and non-HTML content types return EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", askcuny.Errorf(askcuny.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.agent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", askcuny.Errorf(askcuny.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", askcuny.Errorf(askcuny.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") {
		return "", askcuny.Errorf(askcuny.EUNAVAILABLE, "unsupported content type %q for %s", contentType, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", askcuny.Errorf(askcuny.EUNAVAILABLE, "read %s: %v", url, err)
	}

	return string(body), nil
}
