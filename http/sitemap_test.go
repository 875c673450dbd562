package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/askcuny/askcuny"
	askhttp "github.com/askcuny/askcuny/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allScope(t *testing.T) *askcuny.Scope {
	t.Helper()
	scope, err := askcuny.NewScope([]string{`.*`}, nil)
	require.NoError(t, err)
	return scope
}

func TestSitemap_FromRobotsDirective(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprintf(w, "User-agent: *\nAllow: /\nSitemap: %s/custom-sitemap.xml\n", srv.URL)
		case "/custom-sitemap.xml":
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%s/admissions/</loc></url>
  <url><loc>%s/financial-aid/</loc></url>
</urlset>`, srv.URL, srv.URL)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	sm := askhttp.NewSitemap(srv.Client(), allScope(t))

	urls, err := sm.DiscoverURLs(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/admissions/", srv.URL + "/financial-aid/"}, urls)
}

func TestSitemap_FallsBackToDefaultPath(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sitemap.xml" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<urlset><url><loc>%s/degrees/</loc></url></urlset>`, srv.URL)
	}))
	t.Cleanup(srv.Close)

	sm := askhttp.NewSitemap(srv.Client(), allScope(t))

	urls, err := sm.DiscoverURLs(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/degrees/"}, urls)
}

func TestSitemap_ResolvesSitemapIndex(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			fmt.Fprintf(w, `<sitemapindex>
  <sitemap><loc>%s/sitemap-a.xml</loc></sitemap>
  <sitemap><loc>%s/sitemap-b.xml</loc></sitemap>
</sitemapindex>`, srv.URL, srv.URL)
		case "/sitemap-a.xml":
			fmt.Fprintf(w, `<urlset><url><loc>%s/a/</loc></url></urlset>`, srv.URL)
		case "/sitemap-b.xml":
			fmt.Fprintf(w, `<urlset><url><loc>%s/b/</loc></url></urlset>`, srv.URL)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	sm := askhttp.NewSitemap(srv.Client(), allScope(t))

	urls, err := sm.DiscoverURLs(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/a/", srv.URL + "/b/"}, urls)
}

func TestSitemap_FiltersOutOfScope(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sitemap.xml" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<urlset>
  <url><loc>%s/in-scope/</loc></url>
  <url><loc>https://elsewhere.example.com/out/</loc></url>
</urlset>`, srv.URL)
	}))
	t.Cleanup(srv.Close)

	scope, err := askcuny.NewScope([]string{`127\.0\.0\.1`}, nil)
	require.NoError(t, err)
	sm := askhttp.NewSitemap(srv.Client(), scope)

	urls, err := sm.DiscoverURLs(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/in-scope/"}, urls)
}

func TestSitemap_MissingSitemapIsNotAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	sm := askhttp.NewSitemap(srv.Client(), allScope(t))

	urls, err := sm.DiscoverURLs(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, urls)
}
