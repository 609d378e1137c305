package mock

import (
	"context"

	"github.com/fwojciec/siteshape"
)

var _ siteshape.SiteAnalyzer = (*SiteAnalyzer)(nil)

// SiteAnalyzer is a mock implementation of siteshape.SiteAnalyzer.
type SiteAnalyzer struct {
	DiscoverSiteURLsFn               func(ctx context.Context, req *siteshape.DiscoverRequest) (*siteshape.DiscoverResponse, error)
	AnalyseSiteAndGroupByTemplatesFn func(ctx context.Context, req *siteshape.AnalyseRequest) (*siteshape.AnalyseResponse, error)
}

func (a *SiteAnalyzer) DiscoverSiteURLs(ctx context.Context, req *siteshape.DiscoverRequest) (*siteshape.DiscoverResponse, error) {
	return a.DiscoverSiteURLsFn(ctx, req)
}

func (a *SiteAnalyzer) AnalyseSiteAndGroupByTemplates(ctx context.Context, req *siteshape.AnalyseRequest) (*siteshape.AnalyseResponse, error) {
	return a.AnalyseSiteAndGroupByTemplatesFn(ctx, req)
}
