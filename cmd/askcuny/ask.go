package main

import (
	"context"
	"fmt"

	"github.com/askcuny/askcuny"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	ctx := deps.Ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	resp, err := deps.Service.Answer(ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askcuny.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, resp.Answer)

	if len(resp.Sources) > 0 {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Sources:")
		for _, src := range resp.Sources {
			fmt.Fprintf(deps.Stdout, "  [%d] %s (%s)\n", src.Index, src.Title, src.URL)
		}
	}
	return nil
}
