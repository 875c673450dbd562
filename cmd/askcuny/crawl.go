package main

import (
	"fmt"

	"github.com/askcuny/askcuny"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	seeds := c.Seeds
	if len(seeds) == 0 {
		seeds = askcuny.DefaultSeeds
	}

	if c.Sitemaps {
		seen := make(map[string]bool, len(seeds))
		for _, s := range seeds {
			seen[s] = true
		}
		original := seeds
		for _, seed := range original {
			found, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, seed)
			if err != nil {
				deps.Logger.Warn("sitemap discovery failed", "seed", seed, "error", err)
				continue
			}
			for _, u := range found {
				if !seen[u] {
					seen[u] = true
					seeds = append(seeds, u)
				}
			}
		}
	}

	fmt.Fprintf(deps.Stdout, "crawling from %d seeds...\n", len(seeds))

	result, err := deps.Crawler.Crawl(deps.Ctx, seeds)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askcuny.ErrorMessage(err))
		return err
	}

	if result.FromCache {
		fmt.Fprintf(deps.Stdout, "snapshot is fresh (%d pages); skipping crawl\n", result.Saved)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "saved %d pages (%d failed, %d skipped)\n",
		result.Saved, result.Failed, result.Skipped)
	return nil
}
