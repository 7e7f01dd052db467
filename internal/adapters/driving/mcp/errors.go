// Package mcp provides an MCP (Model Context Protocol) server adapter for
// azdo-mcp. It exposes Azure DevOps search to AI assistants as tools.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
