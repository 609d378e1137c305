package siteshape

import (
	"context"
	"time"
)

// Report bundles the discovery and template analysis of a single site.
type Report struct {
	BaseURL     string            `json:"baseUrl"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Discovery   *DiscoverResponse `json:"discovery"`
	Analysis    *AnalyseResponse  `json:"analysis"`
}

// Validate returns an error if the report contains invalid fields.
func (r *Report) Validate() error {
	if r.BaseURL == "" {
		return Errorf(EINVALID, "report baseUrl required")
	}
	if r.Discovery == nil {
		return Errorf(EINVALID, "report discovery required")
	}
	if r.Analysis == nil {
		return Errorf(EINVALID, "report analysis required")
	}
	return nil
}

// ReportWriter persists a Report.
type ReportWriter interface {
	WriteReport(ctx context.Context, r *Report) error
}
