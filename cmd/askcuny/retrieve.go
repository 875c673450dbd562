package main

import (
	"fmt"

	"github.com/askcuny/askcuny"
	"github.com/askcuny/askcuny/tfidf"
)

// Run executes the retrieve command.
func (c *RetrieveCmd) Run(deps *Dependencies) error {
	content, ok, err := deps.Cache.Load(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askcuny.ErrorMessage(err))
		return err
	}
	if !ok {
		fmt.Fprintln(deps.Stderr, "No fresh snapshot found. Run 'askcuny crawl' first.")
		return askcuny.Errorf(askcuny.ENOTFOUND, "no fresh snapshot available")
	}

	index := tfidf.Build(content)
	results := index.Retrieve(c.Query, c.K)
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No relevant passages found.")
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "%d. [%.3f] %s\n   %s\n\n", i+1, r.Score, r.URL, r.Text)
	}
	return nil
}
