package mcp

import (
	"context"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	queries []string
	opts    []domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.queries = append(m.queries, query)
	m.opts = append(m.opts, opts)
	return m.results, m.err
}

// mockEngineService is a mock implementation of driving.EngineService.
type mockEngineService struct {
	count    int
	settings domain.Settings
}

func (m *mockEngineService) Build(context.Context, []domain.DocumentRef) error { return nil }
func (m *mockEngineService) Add(context.Context, domain.DocumentRef) error     { return nil }
func (m *mockEngineService) Update(context.Context, domain.DocumentRef) error  { return nil }
func (m *mockEngineService) Remove(context.Context, string) error              { return nil }
func (m *mockEngineService) Rename(context.Context, string, domain.DocumentRef) error {
	return nil
}
func (m *mockEngineService) Apply(context.Context, domain.DocumentChange) error { return nil }
func (m *mockEngineService) Count() int                                         { return m.count }
func (m *mockEngineService) Clear(context.Context) error                        { return nil }
func (m *mockEngineService) Settings() domain.Settings                          { return m.settings }
func (m *mockEngineService) SetThreshold(float64) error                         { return nil }
func (m *mockEngineService) Close() error                                       { return nil }
