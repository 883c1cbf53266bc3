package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query; Hangul may be partial, initial-consonant shorthand or contain typos"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Path     string  `json:"path"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Strategy string  `json:"strategy"`
	Preview  string  `json:"preview,omitempty"`
}

// StatusInput is the input schema for the status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	Documents int              `json:"documents"`
	Settings  SettingsSnapshot `json:"settings"`
}

// SettingsSnapshot is the engine configuration portion of the status
// output, flattened for consumption by assistants.
type SettingsSnapshot struct {
	Threshold     float64  `json:"threshold"`
	NameWeight    float64  `json:"name_weight"`
	ContentWeight float64  `json:"content_weight"`
	ResultLimit   int      `json:"result_limit"`
	RecentDays    int      `json:"recent_days"`
	SmallFileSize int64    `json:"small_file_size"`
	PreviewLength int      `json:"preview_length"`
	Extensions    []string `json:"extensions"`
}

// newSettingsSnapshot flattens engine settings for output.
func newSettingsSnapshot(s domain.Settings) SettingsSnapshot {
	return SettingsSnapshot{
		Threshold:     s.Threshold,
		NameWeight:    s.NameWeight,
		ContentWeight: s.ContentWeight,
		ResultLimit:   s.ResultLimit,
		RecentDays:    int(s.RecentWindow / (24 * time.Hour)),
		SmallFileSize: s.SmallFileSize,
		PreviewLength: s.PreviewLength,
		Extensions:    s.Extensions,
	}
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the vault's indexed documents with typo-tolerant Hangul matching",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report the indexed document count and the engine settings",
	}, s.handleStatus)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{Limit: limit}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			Path:     results[i].Ref.Path,
			Name:     results[i].Ref.Name,
			Score:    results[i].Score,
			Strategy: results[i].Strategy.String(),
			Preview:  results[i].Preview,
		}
	}

	return nil, output, nil
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	output := StatusOutput{
		Documents: s.ports.Engine.Count(),
		Settings:  newSettingsSnapshot(s.ports.Engine.Settings()),
	}
	return nil, output, nil
}
