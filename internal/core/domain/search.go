package domain

// Strategy identifies which query-execution approach produced a hit.
type Strategy string

// Available strategies, strongest bonus first.
const (
	// StrategyDirect matches the raw query against the display name and
	// content.
	StrategyDirect Strategy = "direct"

	// StrategyInitials matches a leading-consonant-only query against
	// each character's leading consonant.
	StrategyInitials Strategy = "initials"

	// StrategyPartial matches a query mixing composed blocks and bare
	// leading consonants against the fully decomposed document.
	StrategyPartial Strategy = "partial"

	// StrategyDecomposed matches the decomposed query against the
	// decomposed document fields.
	StrategyDecomposed Strategy = "decomposed"
)

// IsValid returns true if the strategy is recognised.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyDirect, StrategyInitials, StrategyPartial, StrategyDecomposed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategyDirect:
		return "Direct (raw query against name and content)"
	case StrategyInitials:
		return "Initial consonants (ㅊㅈ style shorthand)"
	case StrategyPartial:
		return "Partial syllable (mixed blocks and consonants)"
	case StrategyDecomposed:
		return "Decomposed (jamo-level fallback)"
	default:
		return "Unknown"
	}
}

// MatchRange is an inclusive pair of rune offsets into a matched field.
type MatchRange struct {
	// Start is the first matched rune offset.
	Start int

	// End is the last matched rune offset.
	End int
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results. 0 applies the default.
	Limit int
}

// SearchResult represents a single ranked search hit.
type SearchResult struct {
	// Ref is the matched document.
	Ref DocumentRef

	// Score is the final relevance after strategy and ranking bonuses.
	// Higher is better.
	Score float64

	// Strategy is the query strategy that produced the winning score.
	Strategy Strategy

	// NameRanges contains matched rune ranges within Ref.Name, present
	// only when match ranges were requested.
	NameRanges []MatchRange

	// Preview is the document's content preview when it has been
	// hydrated, empty otherwise.
	Preview string
}
