// Package mcp implements the degraded-content fallback as a Model Context
// Protocol client and exposes siteshape's operations as an MCP tool server.
package mcp

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"sync"
	"time"

	"github.com/fwojciec/siteshape"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Fallback defaults.
const (
	DefaultCommand  = "npx"
	DefaultTool     = "search"
	DefaultQueryArg = "query"
	DefaultTimeout  = 15 * time.Second
	MinTimeout      = 5 * time.Second
)

// DefaultArgs starts the search server used when no arguments are configured.
var DefaultArgs = []string{"https://github.com/ACSGenUI/mcp-google-search#release"}

const (
	clientName    = "siteshape-fallback"
	clientVersion = "1.0.0"
)

// Config configures the fallback search server.
type Config struct {
	Enabled  bool
	Command  string
	Args     []string
	Tool     string
	QueryArg string
	Timeout  time.Duration
}

// withDefaults fills unset fields and clamps the timeout.
func (c Config) withDefaults() Config {
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if len(c.Args) == 0 {
		c.Args = slices.Clone(DefaultArgs)
	}
	if c.Tool == "" {
		c.Tool = DefaultTool
	}
	if c.QueryArg == "" {
		c.QueryArg = DefaultQueryArg
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	c.Timeout = max(c.Timeout, MinTimeout)
	return c
}

// Ensure Fallback implements siteshape.ContentFallback at compile time.
var _ siteshape.ContentFallback = (*Fallback)(nil)

// Fallback asks a search tool on an MCP server for a copy of a page.
//
// The session is created on first use and reused for the life of the
// process. A failed connect is remembered and never retried.
type Fallback struct {
	cfg       Config
	transport mcp.Transport

	mu         sync.Mutex
	session    *mcp.ClientSession
	connectErr error
}

// FallbackOption configures a Fallback.
type FallbackOption func(*Fallback)

// WithTransport replaces the command transport, e.g. with an in-memory one.
func WithTransport(t mcp.Transport) FallbackOption {
	return func(f *Fallback) {
		f.transport = t
	}
}

// NewFallback returns the fallback described by cfg, or siteshape.NopFallback
// when it is disabled.
func NewFallback(cfg Config, opts ...FallbackOption) siteshape.ContentFallback {
	if !cfg.Enabled {
		return siteshape.NopFallback{}
	}
	return newFallback(cfg, opts...)
}

func newFallback(cfg Config, opts ...FallbackOption) *Fallback {
	f := &Fallback{cfg: cfg.withDefaults()}
	for _, opt := range opts {
		opt(f)
	}
	if f.transport == nil {
		f.transport = &mcp.CommandTransport{Command: exec.Command(f.cfg.Command, f.cfg.Args...)}
	}
	return f
}

// Retrieve calls the configured tool with the URL as the query.
func (f *Fallback) Retrieve(ctx context.Context, url string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	session, err := f.connect(ctx)
	if err != nil {
		return "", false
	}

	ok, err := f.hasTool(ctx, session)
	if err != nil || !ok {
		return "", false
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      f.cfg.Tool,
		Arguments: map[string]any{f.cfg.QueryArg: url},
	})
	if err != nil {
		return "", false
	}
	return siteshape.ExtractText(convertResult(res))
}

func (f *Fallback) connect(ctx context.Context) (*mcp.ClientSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.session != nil {
		return f.session, nil
	}
	if f.connectErr != nil {
		return nil, f.connectErr
	}

	client := mcp.NewClient(&mcp.Implementation{Name: clientName, Version: clientVersion}, nil)
	session, err := client.Connect(ctx, f.transport, nil)
	if err != nil {
		// A cancelled caller says nothing about the server.
		if ctx.Err() == nil {
			f.connectErr = err
		}
		return nil, err
	}
	f.session = session
	return session, nil
}

func (f *Fallback) hasTool(ctx context.Context, session *mcp.ClientSession) (bool, error) {
	res, err := session.ListTools(ctx, nil)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(res.Tools, func(t *mcp.Tool) bool {
		return t.Name == f.cfg.Tool
	}), nil
}

// Close ends the session, if one was opened.
func (f *Fallback) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.session == nil {
		return nil
	}
	err := f.session.Close()
	f.session = nil
	f.connectErr = errors.New("fallback closed")
	return err
}

// convertResult maps a tool result onto the fallback result variants.
// Structured content takes precedence over the content list.
func convertResult(res *mcp.CallToolResult) siteshape.FallbackResult {
	if res == nil || res.IsError {
		return nil
	}
	if r := convertStructured(res.StructuredContent); r != nil {
		return r
	}
	if len(res.Content) == 0 {
		return nil
	}
	parts := make(siteshape.ContentArray, 0, len(res.Content))
	for _, c := range res.Content {
		switch c := c.(type) {
		case *mcp.TextContent:
			parts = append(parts, siteshape.ContentPart{Type: "text", Text: c.Text})
		case *mcp.ImageContent:
			parts = append(parts, siteshape.ContentPart{Type: "image"})
		case *mcp.AudioContent:
			parts = append(parts, siteshape.ContentPart{Type: "audio"})
		default:
			parts = append(parts, siteshape.ContentPart{Type: "resource"})
		}
	}
	return parts
}

func convertStructured(v any) siteshape.FallbackResult {
	switch v := v.(type) {
	case string:
		return siteshape.PlainText(v)
	case []any:
		return convertParts(v)
	case map[string]any:
		content, _ := v["content"].(string)
		text, _ := v["text"].(string)
		if content != "" || text != "" {
			return siteshape.WrappedContent{Content: content, Text: text}
		}
		if items, ok := v["content"].([]any); ok {
			return convertParts(items)
		}
	}
	return nil
}

func convertParts(items []any) siteshape.ContentArray {
	parts := make(siteshape.ContentArray, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := m["type"].(string)
		text, _ := m["text"].(string)
		parts = append(parts, siteshape.ContentPart{Type: typ, Text: text})
	}
	return parts
}
