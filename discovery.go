package siteshape

import (
	"context"
	"net/url"
)

// Request bounds for the entry operations.
const (
	DefaultDiscoverMaxURLs = 500
	MaxDiscoverMaxURLs     = 500

	DefaultAnalyseMaxURLs = 80
	MaxAnalyseMaxURLs     = 300

	MaxSignatureDepth = 6
)

// CrawlResult is the outcome of one discovery strategy.
type CrawlResult struct {
	// URLs are canonical same-origin URLs, in discovery order.
	URLs []string

	// Errors are per-URL diagnostics formatted as "<url>: <reason>".
	Errors []string
}

// SiteAnalyzer exposes the two entry operations of the pipeline.
type SiteAnalyzer interface {
	// DiscoverSiteURLs finds same-origin URLs starting from a URL.
	DiscoverSiteURLs(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error)

	// AnalyseSiteAndGroupByTemplates groups pages by template signature.
	// When req.URLs is non-empty no crawl is performed.
	AnalyseSiteAndGroupByTemplates(ctx context.Context, req *AnalyseRequest) (*AnalyseResponse, error)
}

// DiscoverRequest are the parameters of DiscoverSiteURLs.
type DiscoverRequest struct {
	URL     string `json:"url"`
	MaxURLs int    `json:"maxUrls,omitempty"`
}

// Validate returns an error if the request contains invalid fields.
// A zero MaxURLs is valid and means DefaultDiscoverMaxURLs.
func (r *DiscoverRequest) Validate() error {
	if err := validateAbsoluteURL(r.URL); err != nil {
		return err
	}
	if r.MaxURLs < 0 || r.MaxURLs > MaxDiscoverMaxURLs {
		return Errorf(EINVALID, "maxUrls must be between 1 and %d", MaxDiscoverMaxURLs)
	}
	return nil
}

// Limit returns MaxURLs with the default applied.
func (r *DiscoverRequest) Limit() int {
	if r.MaxURLs == 0 {
		return DefaultDiscoverMaxURLs
	}
	return r.MaxURLs
}

// DiscoverResponse is the result of DiscoverSiteURLs.
type DiscoverResponse struct {
	URLs    []string `json:"urls"`
	BaseURL string   `json:"baseUrl"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors,omitempty"`
}

// AnalyseRequest are the parameters of AnalyseSiteAndGroupByTemplates.
type AnalyseRequest struct {
	URL      string   `json:"url"`
	URLs     []string `json:"urls,omitempty"`
	MaxURLs  int      `json:"maxUrls,omitempty"`
	MaxDepth int      `json:"maxDepth,omitempty"`
}

// Validate returns an error if the request contains invalid fields.
// Zero MaxURLs and MaxDepth are valid and select the defaults.
func (r *AnalyseRequest) Validate() error {
	if err := validateAbsoluteURL(r.URL); err != nil {
		return err
	}
	for _, u := range r.URLs {
		if err := validateAbsoluteURL(u); err != nil {
			return err
		}
	}
	if r.MaxURLs < 0 || r.MaxURLs > MaxAnalyseMaxURLs {
		return Errorf(EINVALID, "maxUrls must be between 1 and %d", MaxAnalyseMaxURLs)
	}
	if r.MaxDepth < 0 || r.MaxDepth > MaxSignatureDepth {
		return Errorf(EINVALID, "maxDepth must be between 1 and %d", MaxSignatureDepth)
	}
	return nil
}

// Limit returns MaxURLs with the default applied.
func (r *AnalyseRequest) Limit() int {
	if r.MaxURLs == 0 {
		return DefaultAnalyseMaxURLs
	}
	return r.MaxURLs
}

// Depth returns MaxDepth with the default applied.
func (r *AnalyseRequest) Depth() int {
	if r.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return r.MaxDepth
}

// AnalyseResponse is the result of AnalyseSiteAndGroupByTemplates.
type AnalyseResponse struct {
	BaseURL    string           `json:"baseUrl"`
	TotalPages int              `json:"totalPages"`
	Templates  []*TemplateGroup `json:"templates"`
	Errors     []string         `json:"errors,omitempty"`
}

func validateAbsoluteURL(raw string) error {
	if raw == "" {
		return Errorf(EINVALID, "url required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Errorf(EINVALID, "invalid url %q: must be an absolute http(s) URL", raw)
	}
	return nil
}
