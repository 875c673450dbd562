package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/askcuny/askcuny"
	"github.com/askcuny/askcuny/crawl"
	"github.com/askcuny/askcuny/fs"
	"github.com/askcuny/askcuny/gemini"
	askgoogle "github.com/askcuny/askcuny/google"
	askgoquery "github.com/askcuny/askcuny/goquery"
	askhttp "github.com/askcuny/askcuny/http"
	"github.com/askcuny/askcuny/robotstxt"
	"github.com/askcuny/askcuny/search"
	askslog "github.com/askcuny/askcuny/slog"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Snapshot cache path. Set before calling Run().
	CachePath string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		CachePath: defaultCachePath(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("askcuny"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'askcuny --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	scope := askcuny.DefaultScope()
	deps.Cache = fs.NewCache(m.CachePath)

	if cmd == "crawl" {
		robots := robotstxt.NewChecker(scope, failureMode(cli.Crawl.RobotsFailure))
		fetcher := askslog.NewLoggingFetcher(askhttp.NewFetcher(), deps.Logger)

		deps.Crawler = crawl.NewCrawler(
			scope,
			robots,
			fetcher,
			askgoquery.NewExtractor(),
			askgoquery.NewLinks(),
			deps.Cache,
			crawl.WithMaxDepth(cli.Crawl.MaxDepth),
			crawl.WithMaxPages(cli.Crawl.MaxPages),
			crawl.WithRPS(cli.Crawl.RPS),
			crawl.WithLogger(deps.Logger),
		)
		deps.Sitemaps = askhttp.NewSitemap(nil, scope)
	}

	if cmd == "ask" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		robots := robotstxt.NewChecker(scope, failureMode(cli.Ask.RobotsFailure))
		fetcher := askslog.NewLoggingFetcher(askhttp.NewFetcher(), deps.Logger)
		extractor := askgoquery.NewExtractor()

		fallback := askslog.NewLoggingDiscoverer(
			search.NewSeedDiscoverer(askcuny.DefaultSeeds, robots, fetcher, extractor,
				search.WithSeedLogger(deps.Logger)),
			"seeds", deps.Logger)

		opts := []search.ServiceOption{
			search.WithConcurrency(cli.Ask.Concurrency),
			search.WithLogger(deps.Logger),
		}

		// The external search provider is optional; without credentials
		// the pipeline runs on seed discovery alone.
		searchKey := os.Getenv("GOOGLE_API_KEY")
		engineID := os.Getenv("GOOGLE_CSE_ID")
		if searchKey != "" && engineID != "" {
			primary, err := askgoogle.NewDiscoverer(ctx, searchKey, engineID, scope)
			if err != nil {
				return fmt.Errorf("failed to create search provider: %w", err)
			}
			opts = append(opts, search.WithPrimaryDiscoverer(
				askslog.NewLoggingDiscoverer(primary, "google", deps.Logger)))
		}

		deps.Service = search.NewService(
			fallback,
			scope,
			robots,
			fetcher,
			extractor,
			gemini.NewSynthesizer(client),
			opts...,
		)
	}

	return kongCtx.Run(deps)
}

func defaultCachePath() string {
	if path := os.Getenv("ASKCUNY_CACHE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "askcuny-snapshot.json"
	}
	return filepath.Join(home, ".askcuny", "snapshot.json")
}
