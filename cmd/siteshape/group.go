package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/siteshape"
)

// Run executes the group command.
func (c *GroupCmd) Run(deps *Dependencies) error {
	resp, err := deps.Analyzer.AnalyseSiteAndGroupByTemplates(deps.Ctx, &siteshape.AnalyseRequest{
		URL:      c.URL,
		URLs:     c.URLs,
		MaxURLs:  c.MaxURLs,
		MaxDepth: c.MaxDepth,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteshape.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, resp)
	}

	printTemplates(deps.Stdout, resp)
	printErrors(deps.Stderr, resp.Errors)
	return nil
}

// printTemplates writes one block per template: a header line with the id,
// page count and signature preview, followed by its URLs.
func printTemplates(w io.Writer, resp *siteshape.AnalyseResponse) {
	fmt.Fprintf(w, "%d pages, %d templates\n", resp.TotalPages, len(resp.Templates))
	for _, tg := range resp.Templates {
		fmt.Fprintf(w, "\n%s  %d %s  %s\n", tg.TemplateID, tg.PageCount, pluralize(tg.PageCount, "page", "pages"), tg.SignaturePreview)
		for _, u := range tg.URLs {
			fmt.Fprintf(w, "  %s\n", u)
		}
	}
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
