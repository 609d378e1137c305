package mock

import (
	"context"

	"github.com/fwojciec/siteshape"
)

var _ siteshape.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of siteshape.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, r *siteshape.Report) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, r *siteshape.Report) error {
	return w.WriteReportFn(ctx, r)
}
