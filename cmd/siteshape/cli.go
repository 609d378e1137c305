package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/siteshape"
)

// Browser engines for rendered-DOM discovery.
const (
	BrowserRod      = "rod"
	BrowserChromedp = "chromedp"
	BrowserNone     = "none"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Analyzer siteshape.SiteAnalyzer
	Reports  siteshape.ReportWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Browser     string        `default:"rod" enum:"rod,chromedp,none" env:"SITESHAPE_BROWSER" help:"Browser engine for rendered discovery (rod, chromedp, none)"`
	Timeout     time.Duration `short:"t" default:"20s" env:"SITESHAPE_TIMEOUT" help:"HTTP fetch timeout per page"`
	NavTimeout  time.Duration `default:"30s" env:"SITESHAPE_NAV_TIMEOUT" help:"Browser navigation timeout per page"`
	Settle      time.Duration `default:"3s" env:"SITESHAPE_SETTLE" help:"Wait after navigation before reading links"`
	RPS         float64       `name:"rps" default:"0" env:"SITESHAPE_RPS" help:"Requests per second per domain (0 = unlimited)"`
	Concurrency int           `short:"c" default:"1" env:"SITESHAPE_CONCURRENCY" help:"Concurrent fetch limit while grouping"`
	Verbose     bool          `short:"v" env:"SITESHAPE_VERBOSE" help:"Log every fetch, render and fallback to stderr"`

	Fallback         bool          `env:"SITESHAPE_FALLBACK" help:"Retrieve failed pages through an MCP search server"`
	FallbackCommand  string        `default:"npx" env:"SITESHAPE_FALLBACK_COMMAND" help:"Command that starts the fallback MCP server"`
	FallbackArgs     []string      `env:"SITESHAPE_FALLBACK_ARGS" help:"Arguments for the fallback command"`
	FallbackTool     string        `default:"search" env:"SITESHAPE_FALLBACK_TOOL" help:"Tool name on the fallback server"`
	FallbackQueryArg string        `default:"query" env:"SITESHAPE_FALLBACK_QUERY_ARG" help:"Tool argument that receives the page URL"`
	FallbackTimeout  time.Duration `default:"15s" env:"SITESHAPE_FALLBACK_TIMEOUT" help:"Fallback call timeout (minimum 5s)"`

	Discover DiscoverCmd `cmd:"" help:"List the URLs of a site"`
	Group    GroupCmd    `cmd:"" help:"Group the pages of a site by layout template"`
	Report   ReportCmd   `cmd:"" help:"Discover and group a site, and save the result as JSON"`
	Serve    ServeCmd    `cmd:"" help:"Serve discover and group as MCP tools over stdio"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL     string `arg:"" help:"Start URL"`
	MaxURLs int    `short:"n" default:"500" help:"Maximum URLs to return (1-500)"`
	JSON    bool   `help:"Print the full response as JSON"`
}

// GroupCmd is the "group" subcommand.
type GroupCmd struct {
	URL      string   `arg:"" help:"Start URL"`
	URLs     []string `name:"urls" short:"u" help:"URLs to group instead of crawling (repeatable)"`
	MaxURLs  int      `short:"n" default:"80" help:"Maximum pages to crawl when --urls is not given (1-300)"`
	MaxDepth int      `short:"d" default:"4" help:"DOM depth of the layout signature (1-6)"`
	JSON     bool     `help:"Print the full response as JSON"`
}

// ReportCmd is the "report" subcommand.
type ReportCmd struct {
	URL      string `arg:"" help:"Start URL"`
	Out      string `short:"o" default:"." type:"path" help:"Directory the report is written under"`
	MaxURLs  int    `short:"n" default:"500" help:"Maximum URLs to discover (1-500)"`
	MaxDepth int    `short:"d" default:"4" help:"DOM depth of the layout signature (1-6)"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}
