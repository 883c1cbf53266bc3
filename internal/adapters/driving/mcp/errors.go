// Package mcp provides an MCP (Model Context Protocol) server adapter for chaja.
// It enables AI assistants like Claude to search a vault with the same
// typo-tolerant Hangul matching the CLI uses.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingEngineService is returned when the engine service is not provided.
var ErrMissingEngineService = errors.New("mcp: engine service is required")
