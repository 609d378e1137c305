package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/siteshape"
	"github.com/fwojciec/siteshape/chromedp"
	"github.com/fwojciec/siteshape/crawl"
	"github.com/fwojciec/siteshape/fs"
	"github.com/fwojciec/siteshape/goquery"
	shapehttp "github.com/fwojciec/siteshape/http"
	shapemcp "github.com/fwojciec/siteshape/mcp"
	"github.com/fwojciec/siteshape/rod"
	shapeslog "github.com/fwojciec/siteshape/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When nil, Run wires the real ones
	// from the parsed flags.
	Analyzer siteshape.SiteAnalyzer
	Reports  siteshape.ReportWriter

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases resources opened by Run.
func (m *Main) Close() error {
	var firstErr error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("siteshape"),
		kong.Description("Discover the pages of a web site and group them by layout template"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'siteshape --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	if m.Analyzer == nil {
		m.Analyzer = m.newAnalyzer(cli, deps.Logger)
	}
	defer m.Close()
	deps.Analyzer = m.Analyzer

	if strings.HasPrefix(kongCtx.Command(), "report") {
		if m.Reports == nil {
			m.Reports = fs.NewReportWriter(cli.Report.Out)
		}
		deps.Reports = m.Reports
	}

	return kongCtx.Run(deps)
}

// newLogger logs warnings and errors to stderr, and every service call when
// verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newAnalyzer wires the discovery pipeline from the global flags.
func (m *Main) newAnalyzer(cli *CLI, logger *slog.Logger) siteshape.SiteAnalyzer {
	var (
		fetcher  siteshape.Fetcher        = shapehttp.NewFetcher(shapehttp.WithTimeout(cli.Timeout))
		sitemaps siteshape.SitemapService = shapehttp.NewSitemapService(shapehttp.WithTimeout(cli.Timeout))
		fallback siteshape.ContentFallback
		launcher siteshape.BrowserLauncher
		limiter  siteshape.DomainLimiter
	)
	m.closers = append(m.closers, fetcher)

	fallback = shapemcp.NewFallback(shapemcp.Config{
		Enabled:  cli.Fallback,
		Command:  cli.FallbackCommand,
		Args:     cli.FallbackArgs,
		Tool:     cli.FallbackTool,
		QueryArg: cli.FallbackQueryArg,
		Timeout:  cli.FallbackTimeout,
	})
	if c, ok := fallback.(io.Closer); ok {
		m.closers = append(m.closers, c)
	}

	switch cli.Browser {
	case BrowserRod:
		launcher = rod.NewLauncher(
			rod.WithNavigationTimeout(cli.NavTimeout),
			rod.WithSettleDelay(cli.Settle),
		)
	case BrowserChromedp:
		launcher = chromedp.NewLauncher(
			chromedp.WithNavigationTimeout(cli.NavTimeout),
			chromedp.WithSettleDelay(cli.Settle),
		)
	}

	if cli.RPS > 0 {
		limiter = crawl.NewDomainLimiter(cli.RPS)
	}

	if cli.Verbose {
		fetcher = shapeslog.NewLoggingFetcher(fetcher, logger)
		sitemaps = shapeslog.NewLoggingSitemapService(sitemaps, logger)
		fallback = shapeslog.NewLoggingFallback(fallback, logger)
		if launcher != nil {
			launcher = shapeslog.NewLoggingBrowserLauncher(launcher, logger)
		}
	}

	var analyzer siteshape.SiteAnalyzer = &crawl.Service{
		Sitemaps:    sitemaps,
		Fetcher:     fetcher,
		Links:       goquery.NewLinkExtractor(),
		Signatures:  goquery.NewSignatureBuilder(),
		Launcher:    launcher,
		Fallback:    fallback,
		RateLimiter: limiter,
		Concurrency: cli.Concurrency,
	}
	if cli.Verbose {
		analyzer = shapeslog.NewLoggingSiteAnalyzer(analyzer, logger)
	}
	return analyzer
}
