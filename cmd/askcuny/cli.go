package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/askcuny/askcuny"
	"github.com/askcuny/askcuny/crawl"
	askhttp "github.com/askcuny/askcuny/http"
	"github.com/askcuny/askcuny/robotstxt"
	"github.com/askcuny/askcuny/search"
)

// Dependencies holds all services and configuration for command
// execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Crawler  *crawl.Crawler
	Service  *search.Service
	Cache    askcuny.SnapshotCache
	Sitemaps *askhttp.Sitemap
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Crawl    CrawlCmd    `cmd:"" help:"Crawl CUNY websites into the local snapshot"`
	Ask      AskCmd      `cmd:"" help:"Ask a question and get a cited answer from live pages"`
	Retrieve RetrieveCmd `cmd:"" help:"Retrieve the most relevant cached passages for a query"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Seeds    []string `arg:"" optional:"" help:"Seed URLs (defaults to the curated CUNY seed list)"`
	MaxDepth int      `default:"3" help:"Maximum link distance from the seeds"`
	MaxPages int      `default:"500" help:"Maximum number of pages to store"`
	RPS      float64  `name:"rps" default:"1" help:"Requests per second per domain"`
	Sitemaps bool     `help:"Expand the seed list from each seed host's sitemap"`

	RobotsFailure string `enum:"closed,open" default:"closed" help:"Behavior when robots.txt cannot be fetched (closed or open)"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question    string        `arg:"" help:"Question to answer"`
	Concurrency int           `short:"c" default:"1" help:"Concurrent candidate page fetches"`
	Timeout     time.Duration `default:"0" help:"Wall-clock budget for the whole query (0 = none)"`

	RobotsFailure string `enum:"closed,open" default:"open" help:"Behavior when robots.txt cannot be fetched (closed or open)"`
}

// RetrieveCmd is the "retrieve" subcommand.
type RetrieveCmd struct {
	Query string `arg:"" help:"Query to match against cached passages"`
	K     int    `short:"k" default:"5" help:"Maximum number of passages to return"`
}

// failureMode maps the CLI enum onto the robots checker mode.
func failureMode(s string) robotstxt.FailureMode {
	if s == "open" {
		return robotstxt.FailOpenInScope
	}
	return robotstxt.FailClosed
}
