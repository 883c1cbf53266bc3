package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
	assert.Equal(t, "Search the vault", searchCmd.Short)
}

func TestSearchCmd_HasFlags(t *testing.T) {
	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "0", limit.DefValue)

	jsonFlag := searchCmd.Flags().Lookup("json")
	require.NotNil(t, jsonFlag)
	assert.Equal(t, "false", jsonFlag.DefValue)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "arg")
}

func TestSearchCmd_TableOutput(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	output, err := execute(t, "search", "회의")

	require.NoError(t, err)
	assert.Contains(t, output, "Results:")
	assert.Contains(t, output, "[1] 회의록 (2.07, direct)")
	assert.Contains(t, output, "회의록.md")
	assert.Contains(t, output, "프로젝트 회의록 정리")
	assert.Equal(t, []string{"회의"}, ts.search.queries)
}

func TestSearchCmd_NoResults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.results = nil

	output, err := execute(t, "search", "없는문서")

	require.NoError(t, err)
	assert.Contains(t, output, "No results found.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer func() { searchJSON = false }()

	output, err := execute(t, "search", "회의", "--json")

	require.NoError(t, err)

	var results []domain.SearchResult
	require.NoError(t, json.Unmarshal([]byte(output), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "/vault/회의록.md", results[0].Ref.Path)
	assert.Equal(t, domain.StrategyDirect, results[0].Strategy)
	assert.InDelta(t, 2.07, results[0].Score, 0.001)
}

func TestSearchCmd_PassesLimit(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer func() { searchLimit = 0 }()

	_, err := execute(t, "search", "회의", "--limit", "5")

	require.NoError(t, err)
	require.Len(t, ts.search.opts, 1)
	assert.Equal(t, 5, ts.search.opts[0].Limit)
}

func TestSearchCmd_DefaultLimitIsZero(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search", "회의")

	require.NoError(t, err)
	require.Len(t, ts.search.opts, 1)
	assert.Equal(t, 0, ts.search.opts[0].Limit)
}

func TestSearchCmd_BuildError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.buildErr = assert.AnError

	_, err := execute(t, "search", "회의")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index vault")
}

func TestSearchCmd_SearchError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.err = assert.AnError

	_, err := execute(t, "search", "회의")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestSearchCmd_ClosesEngine(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search", "회의")

	require.NoError(t, err)
	assert.True(t, ts.engine.closed)
}

func TestSearchCmd_OpenerNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	openVault = nil

	_, err := execute(t, "search", "회의")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault opener not configured")
}

func TestSearchCmd_OpenVaultError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	openVault = func(context.Context, string) (*Session, error) {
		return nil, assert.AnError
	}

	_, err := execute(t, "search", "회의")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open vault")
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single line passes through",
			input:    "짧은 한 줄",
			expected: "짧은 한 줄",
		},
		{
			name:     "keeps only the first line",
			input:    "첫 줄\n둘째 줄\n셋째 줄",
			expected: "첫 줄",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "long line is truncated",
			input:    strings.Repeat("가", 200),
			expected: strings.Repeat("가", snippetLength),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, firstLine(tt.input))
		})
	}
}
