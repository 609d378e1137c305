package mcp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/siteshape"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server identity reported to MCP clients.
const (
	ServerName    = "siteshape"
	ServerVersion = "1.0.0"
)

// Tool names.
const (
	DiscoverToolName = "discover_site_urls"
	AnalyseToolName  = "analyse_site_and_group_by_templates"
)

// DiscoverArgs is the input of the discover_site_urls tool.
type DiscoverArgs struct {
	URL     string `json:"url" jsonschema:"absolute http(s) URL of the site to discover"`
	MaxURLs int    `json:"maxUrls,omitempty" jsonschema:"maximum number of URLs to return (1-500, default 500)"`
}

// AnalyseArgs is the input of the analyse_site_and_group_by_templates tool.
type AnalyseArgs struct {
	URL      string   `json:"url" jsonschema:"absolute http(s) URL of the site to analyse"`
	URLs     []string `json:"urls,omitempty" jsonschema:"URLs to group; when omitted the site is crawled from url"`
	MaxURLs  int      `json:"maxUrls,omitempty" jsonschema:"maximum number of URLs to crawl and group (1-300, default 80)"`
	MaxDepth int      `json:"maxDepth,omitempty" jsonschema:"DOM depth of the layout signature (1-6, default 4)"`
}

// Server exposes a siteshape.SiteAnalyzer as MCP tools.
type Server struct {
	server   *mcp.Server
	analyzer siteshape.SiteAnalyzer
	logger   *slog.Logger
}

// NewServer creates a Server and registers its tools.
func NewServer(analyzer siteshape.SiteAnalyzer, logger *slog.Logger) *Server {
	s := &Server{
		server:   mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, nil),
		analyzer: analyzer,
		logger:   logger,
	}
	s.registerTools()
	return s
}

// Run serves requests on t until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.server.Run(ctx, t)
}

// ServeStdio serves a single client on the process's stdin and stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: DiscoverToolName,
		Description: "Discovers same-origin URLs of a web site. Seeds from robots.txt and sitemaps, " +
			"crawls the rendered DOM, and falls back to plain HTTP link following.",
	}, s.discover)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: AnalyseToolName,
		Description: "Groups the pages of a web site by layout template. Each page's body is reduced to a " +
			"depth-limited DOM signature and pages with identical signatures share a template.",
	}, s.analyse)
}

func (s *Server) discover(ctx context.Context, _ *mcp.CallToolRequest, args DiscoverArgs) (*mcp.CallToolResult, *siteshape.DiscoverResponse, error) {
	run := s.logger.With("run", uuid.NewString(), "tool", DiscoverToolName)
	begin := time.Now()

	resp, err := s.analyzer.DiscoverSiteURLs(ctx, &siteshape.DiscoverRequest{
		URL:     args.URL,
		MaxURLs: args.MaxURLs,
	})
	if err != nil {
		run.Info("tool call", "url", args.URL, "duration", time.Since(begin), "err", err)
		return nil, nil, toolError(err)
	}

	run.Info("tool call", "url", args.URL, "count", resp.Total, "duration", time.Since(begin))
	return nil, resp, nil
}

func (s *Server) analyse(ctx context.Context, _ *mcp.CallToolRequest, args AnalyseArgs) (*mcp.CallToolResult, *siteshape.AnalyseResponse, error) {
	run := s.logger.With("run", uuid.NewString(), "tool", AnalyseToolName)
	begin := time.Now()

	resp, err := s.analyzer.AnalyseSiteAndGroupByTemplates(ctx, &siteshape.AnalyseRequest{
		URL:      args.URL,
		URLs:     args.URLs,
		MaxURLs:  args.MaxURLs,
		MaxDepth: args.MaxDepth,
	})
	if err != nil {
		run.Info("tool call", "url", args.URL, "duration", time.Since(begin), "err", err)
		return nil, nil, toolError(err)
	}

	run.Info("tool call",
		"url", args.URL,
		"pages", resp.TotalPages,
		"templates", len(resp.Templates),
		"duration", time.Since(begin),
	)
	return nil, resp, nil
}

// toolError reduces err to its user-facing message. Errors without an
// application code are reported as "Internal error.".
func toolError(err error) error {
	return errors.New(siteshape.ErrorMessage(err))
}
