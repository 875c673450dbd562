package robotstxt_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/askcuny/askcuny"
	"github.com/askcuny/askcuny/robotstxt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScope(t *testing.T, hosts ...string) *askcuny.Scope {
	t.Helper()
	scope, err := askcuny.NewScope(hosts, nil)
	require.NoError(t, err)
	return scope
}

func TestChecker_Allow(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	checker := robotstxt.NewChecker(testScope(t, `.*`), robotstxt.FailClosed,
		robotstxt.WithHTTPClient(srv.Client()))

	assert.True(t, checker.Allow(context.Background(), srv.URL+"/admissions/"))
	assert.False(t, checker.Allow(context.Background(), srv.URL+"/private/records"))
}

func TestChecker_MemoizesPerHost(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
	}))
	t.Cleanup(srv.Close)

	checker := robotstxt.NewChecker(testScope(t, `.*`), robotstxt.FailClosed,
		robotstxt.WithHTTPClient(srv.Client()))

	for range 5 {
		assert.True(t, checker.Allow(context.Background(), srv.URL+"/page"))
	}
	assert.Equal(t, int32(1), fetches.Load(), "robots.txt should be fetched once per host")
}

func TestChecker_FetchFailure(t *testing.T) {
	t.Parallel()

	// A server that is immediately closed produces connection errors.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := srv.Client()
	url := srv.URL
	srv.Close()

	t.Run("fail closed denies", func(t *testing.T) {
		t.Parallel()

		checker := robotstxt.NewChecker(testScope(t, `.*`), robotstxt.FailClosed,
			robotstxt.WithHTTPClient(client))

		assert.False(t, checker.Allow(context.Background(), url+"/page"))
	})

	t.Run("fail open falls back to scope membership", func(t *testing.T) {
		t.Parallel()

		checker := robotstxt.NewChecker(testScope(t, `.*`), robotstxt.FailOpenInScope,
			robotstxt.WithHTTPClient(client))

		assert.True(t, checker.Allow(context.Background(), url+"/page"))
	})

	t.Run("fail open still denies out-of-scope hosts", func(t *testing.T) {
		t.Parallel()

		checker := robotstxt.NewChecker(testScope(t, `nothing\.example`), robotstxt.FailOpenInScope,
			robotstxt.WithHTTPClient(client))

		assert.False(t, checker.Allow(context.Background(), url+"/page"))
	})
}

func TestChecker_MalformedURL(t *testing.T) {
	t.Parallel()

	checker := robotstxt.NewChecker(testScope(t, `.*`), robotstxt.FailOpenInScope)

	assert.False(t, checker.Allow(context.Background(), "::not a url"))
	assert.False(t, checker.Allow(context.Background(), "relative/path"))
}
