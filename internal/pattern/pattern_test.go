package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-labs/chaja-cli/internal/bitap"
)

func TestParse_TokenKinds(t *testing.T) {
	tests := []struct {
		name  string
		query string
		kind  TokenKind
		text  string
	}{
		{name: "exact", query: "=pinned", kind: KindExact, text: "pinned"},
		{name: "exact quoted", query: `="weekly report"`, kind: KindExact, text: "weekly report"},
		{name: "include", query: "'draft", kind: KindInclude, text: "draft"},
		{name: "include quoted", query: `'"two words"`, kind: KindInclude, text: "two words"},
		{name: "prefix", query: "^2024", kind: KindPrefix, text: "2024"},
		{name: "inverse prefix", query: "!^tmp", kind: KindInversePrefix, text: "tmp"},
		{name: "suffix", query: "md$", kind: KindSuffix, text: "md"},
		{name: "inverse suffix", query: "!bak$", kind: KindInverseSuffix, text: "bak"},
		{name: "inverse exact", query: "!archive", kind: KindInverseExact, text: "archive"},
		{name: "fuzzy fallback", query: "meeting", kind: KindFuzzy, text: "meeting"},
		{name: "fuzzy quoted", query: `"meeting notes"`, kind: KindFuzzy, text: "meeting notes"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := Parse(tc.query, bitap.DefaultConfig())
			require.Len(t, q.branches, 1)
			require.Len(t, q.branches[0], 1)

			tok := q.branches[0][0]
			assert.Equal(t, tc.kind, tok.Kind)
			assert.Equal(t, tc.text, tok.Text)
		})
	}
}

func TestSplitTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "plain tokens",
			input:    "one two three",
			expected: []string{"one", "two", "three"},
		},
		{
			name:     "quoted token kept whole",
			input:    `^jeju "beach trip" food$`,
			expected: []string{"^jeju", `"beach trip"`, "food$"},
		},
		{
			name:     "repeated spaces collapse",
			input:    "a  b",
			expected: []string{"a", "b"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, splitTokens(tc.input))
		})
	}
}

func TestMatch_Exact(t *testing.T) {
	q := Parse("=hello", bitap.DefaultConfig())

	result := q.Match("hello")
	require.True(t, result.IsMatch)
	assert.Equal(t, 0.0, result.Score)

	assert.False(t, q.Match("hello!").IsMatch)
}

func TestMatch_PrefixAndSuffix(t *testing.T) {
	q := Parse("^meet ing$", bitap.DefaultConfig())

	assert.True(t, q.Match("meeting").IsMatch)
	assert.False(t, q.Match("meetings").IsMatch) // suffix token fails the branch
	assert.False(t, q.Match("premeeting").IsMatch)
}

func TestMatch_Inverse(t *testing.T) {
	q := Parse("!draft", bitap.DefaultConfig())

	assert.True(t, q.Match("final report").IsMatch)
	assert.False(t, q.Match("draft report").IsMatch)
}

func TestMatch_OrBranches(t *testing.T) {
	q := Parse("xyzzy | ^hel", bitap.DefaultConfig())

	result := q.Match("hello")
	require.True(t, result.IsMatch)
	assert.Equal(t, 0.0, result.Score)
}

func TestMatch_FirstBranchWins(t *testing.T) {
	// Branches are evaluated left to right; the exact token in the
	// second branch would score 0, but the fuzzy first branch already
	// matches.
	q := Parse("hel | =hello", bitap.DefaultConfig())

	result := q.Match("hello")
	require.True(t, result.IsMatch)
	assert.Equal(t, 0.001, result.Score)
}

func TestMatch_BranchScoreIsMean(t *testing.T) {
	q := Parse("hel =hello", bitap.DefaultConfig())

	result := q.Match("hello")
	require.True(t, result.IsMatch)
	assert.InDelta(t, 0.0005, result.Score, 1e-9) // (0.001 + 0) / 2
}

func TestMatch_CaseFolding(t *testing.T) {
	q := Parse("=Hello", bitap.DefaultConfig())
	assert.True(t, q.Match("hELLO").IsMatch)

	cfg := bitap.DefaultConfig()
	cfg.IsCaseSensitive = true
	q = Parse("=Hello", cfg)
	assert.False(t, q.Match("hELLO").IsMatch)
}

func TestMatch_IncludeRanges(t *testing.T) {
	cfg := bitap.DefaultConfig()
	cfg.IncludeMatches = true

	q := Parse("'lo", cfg)

	result := q.Match("hello lol")
	require.True(t, result.IsMatch)
	assert.Equal(t, []bitap.Range{{Start: 3, End: 4}, {Start: 6, End: 7}}, result.Ranges)
}

func TestMatch_EmptyQuery(t *testing.T) {
	q := Parse("", bitap.DefaultConfig())

	result := q.Match("anything")
	assert.False(t, result.IsMatch)
	assert.Equal(t, 1.0, result.Score)
}

func TestMatch_FuzzyFallback(t *testing.T) {
	q := Parse("serch", bitap.DefaultConfig())

	result := q.Match("search notes")
	require.True(t, result.IsMatch)
	assert.Greater(t, result.Score, 0.0)
	assert.Less(t, result.Score, 0.6)
}
