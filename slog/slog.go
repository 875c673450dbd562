// Package slog provides logging decorators for the domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/askcuny/askcuny"
)

// Compile-time interface verification.
var (
	_ askcuny.Fetcher    = (*LoggingFetcher)(nil)
	_ askcuny.Discoverer = (*LoggingDiscoverer)(nil)
)

// LoggingFetcher wraps a Fetcher with per-request logging.
type LoggingFetcher struct {
	next   askcuny.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next askcuny.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher, logging the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Warn("fetch",
			"url", url,
			"duration", time.Since(begin),
			"error", err,
		)
		return "", err
	}
	f.logger.Debug("fetch",
		"url", url,
		"duration", time.Since(begin),
		"bytes", len(html),
	)
	return html, nil
}

// LoggingDiscoverer wraps a Discoverer with per-query logging.
type LoggingDiscoverer struct {
	next   askcuny.Discoverer
	name   string
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer. The name labels
// the wrapped strategy in log output.
func NewLoggingDiscoverer(next askcuny.Discoverer, name string, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, name: name, logger: logger}
}

// Discover delegates to the wrapped discoverer, logging the outcome.
func (d *LoggingDiscoverer) Discover(ctx context.Context, query string, limit int) ([]askcuny.SearchCandidate, error) {
	begin := time.Now()
	candidates, err := d.next.Discover(ctx, query, limit)
	if err != nil {
		d.logger.Warn("discovery",
			"strategy", d.name,
			"query", query,
			"duration", time.Since(begin),
			"error", err,
		)
		return nil, err
	}
	d.logger.Info("discovery",
		"strategy", d.name,
		"query", query,
		"duration", time.Since(begin),
		"candidates", len(candidates),
	)
	return candidates, nil
}
