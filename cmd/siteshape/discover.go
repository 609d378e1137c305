package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/siteshape"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	resp, err := deps.Analyzer.DiscoverSiteURLs(deps.Ctx, &siteshape.DiscoverRequest{
		URL:     c.URL,
		MaxURLs: c.MaxURLs,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteshape.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, resp)
	}

	for _, u := range resp.URLs {
		fmt.Fprintln(deps.Stdout, u)
	}
	printErrors(deps.Stderr, resp.Errors)
	return nil
}

func printErrors(w io.Writer, errs []string) {
	for _, e := range errs {
		fmt.Fprintf(w, "  skip %s\n", e)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
