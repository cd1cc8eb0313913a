// Package mcp provides an MCP (Model Context Protocol) server adapter for hsarchive.
// It lets AI assistants look up archived conversations through the flat index.
package mcp

import "errors"

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("mcp: index service is required")
