package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/siteshape"
)

// Run executes the report command.
func (c *ReportCmd) Run(deps *Dependencies) error {
	discovery, err := deps.Analyzer.DiscoverSiteURLs(deps.Ctx, &siteshape.DiscoverRequest{
		URL:     c.URL,
		MaxURLs: c.MaxURLs,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteshape.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "  Found %d URLs\n", discovery.Total)

	analysis, err := deps.Analyzer.AnalyseSiteAndGroupByTemplates(deps.Ctx, &siteshape.AnalyseRequest{
		URL:      c.URL,
		URLs:     discovery.URLs,
		MaxDepth: c.MaxDepth,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteshape.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "  Grouped into %d templates\n", len(analysis.Templates))

	report := &siteshape.Report{
		BaseURL:     discovery.BaseURL,
		GeneratedAt: time.Now().UTC(),
		Discovery:   discovery,
		Analysis:    analysis,
	}
	if err := deps.Reports.WriteReport(deps.Ctx, report); err != nil {
		fmt.Fprintf(deps.Stderr, "error writing report: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved report for %s\n", report.BaseURL)
	return nil
}
