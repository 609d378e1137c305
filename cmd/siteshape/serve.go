package main

import (
	shapemcp "github.com/fwojciec/siteshape/mcp"
)

// Run executes the serve command. Stdout carries the protocol, so nothing
// else may write to it while serving.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := shapemcp.NewServer(deps.Analyzer, deps.Logger)
	deps.Logger.Info("serving MCP over stdio")
	return server.ServeStdio(deps.Ctx)
}
