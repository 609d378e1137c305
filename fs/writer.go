// Package fs provides file-based storage for site reports.
package fs

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/siteshape"
)

// HostSlug converts a site URL to a directory name.
// Example: https://Docs.Example.com:8080/guide → docs-example-com-8080
func HostSlug(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", siteshape.Errorf(siteshape.EINVALID, "url %q has no host", rawURL)
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(u.Host) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-"), nil
}

// Ensure ReportWriter implements siteshape.ReportWriter at compile time.
var _ siteshape.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes reports to baseDir/<host-slug>/.
//
// Files are staged in baseDir/<host-slug>.tmp and moved into place once every
// file is written, so a reader never sees a partial report.
type ReportWriter struct {
	baseDir string
}

// NewReportWriter creates a new ReportWriter rooted at baseDir.
func NewReportWriter(baseDir string) *ReportWriter {
	return &ReportWriter{baseDir: baseDir}
}

// Dir returns the directory a report for rawURL is written to.
func (w *ReportWriter) Dir(rawURL string) (string, error) {
	slug, err := HostSlug(rawURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.baseDir, slug), nil
}

// WriteReport writes report.json and urls.txt for the report's site.
func (w *ReportWriter) WriteReport(ctx context.Context, r *siteshape.Report) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	finalDir, err := w.Dir(r.BaseURL)
	if err != nil {
		return err
	}
	tempDir := finalDir + ".tmp"

	if err := os.RemoveAll(tempDir); err != nil {
		return err
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return err
	}

	if err := writeFiles(tempDir, r); err != nil {
		_ = os.RemoveAll(tempDir)
		return err
	}

	if err := os.RemoveAll(finalDir); err != nil {
		return err
	}
	return os.Rename(tempDir, finalDir)
}

func writeFiles(dir string, r *siteshape.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "report.json"), append(data, '\n'), 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "urls.txt"), []byte(FormatURLs(r.Discovery.URLs)), 0644)
}

// FormatURLs formats URLs one per line.
func FormatURLs(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return strings.Join(urls, "\n") + "\n"
}
