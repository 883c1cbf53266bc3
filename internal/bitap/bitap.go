// Package bitap implements bit-parallel approximate string matching with
// distance-weighted scoring.
//
// A Matcher is compiled once per pattern and reused across texts. Patterns
// longer than the 32-rune machine word are split into consecutive chunks;
// each chunk is matched independently at its own location offset and the
// chunk scores are averaged.
package bitap

import "strings"

// maxPatternLength is the widest pattern one bit-parallel scan can hold.
const maxPatternLength = 32

// Config controls matching and scoring behaviour.
type Config struct {
	// Location is the expected offset of the match within the text.
	Location int

	// Distance is how far from Location a match may drift before it is
	// scored as a complete mismatch. 0 demands character survivability
	// at the expected location only.
	Distance int

	// Threshold is the maximum acceptable score: 0 requires a perfect
	// match, 1 accepts anything.
	Threshold float64

	// FindAllMatches keeps scanning past a perfect match so later
	// occurrences still contribute matched ranges.
	FindAllMatches bool

	// MinMatchCharLength drops matched runs shorter than this many runes.
	MinMatchCharLength int

	// IsCaseSensitive disables the default case folding.
	IsCaseSensitive bool

	// IncludeMatches records matched index ranges on the result.
	IncludeMatches bool

	// IgnoreLocation scores by edit distance alone, wherever the match.
	IgnoreLocation bool
}

// DefaultConfig returns the standard matching configuration.
func DefaultConfig() Config {
	return Config{
		Location:           0,
		Distance:           100,
		Threshold:          0.6,
		FindAllMatches:     false,
		MinMatchCharLength: 1,
		IsCaseSensitive:    false,
		IncludeMatches:     false,
		IgnoreLocation:     false,
	}
}

// Range is an inclusive pair of rune offsets into the matched text.
type Range struct {
	Start int
	End   int
}

// Result is the outcome of matching one pattern against one text.
type Result struct {
	// IsMatch reports whether the pattern matched within the threshold.
	IsMatch bool

	// Score ranges from 0 (perfect) to 1 (no match). Scan results are
	// floored at 0.001 so only full-text equality scores exactly 0.
	Score float64

	// Ranges holds the matched rune ranges when IncludeMatches is set.
	Ranges []Range
}

// chunk is one ≤32-rune slice of the pattern with its precompiled
// alphabet and its starting offset within the full pattern.
type chunk struct {
	pattern    []rune
	alphabet   map[rune]uint32
	startIndex int
}

// Matcher is a compiled pattern. It is immutable after construction and
// safe to reuse across texts.
type Matcher struct {
	pattern string
	cfg     Config
	chunks  []chunk
}

// NewMatcher compiles pattern under the given configuration.
func NewMatcher(pattern string, cfg Config) *Matcher {
	if !cfg.IsCaseSensitive {
		pattern = strings.ToLower(pattern)
	}

	m := &Matcher{pattern: pattern, cfg: cfg}

	runes := []rune(pattern)
	for start := 0; start < len(runes); start += maxPatternLength {
		end := start + maxPatternLength
		if end > len(runes) {
			end = len(runes)
		}
		part := runes[start:end]
		m.chunks = append(m.chunks, chunk{
			pattern:    part,
			alphabet:   patternAlphabet(part),
			startIndex: start,
		})
	}

	return m
}

// Pattern returns the compiled pattern after case folding.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Match runs the pattern against text.
func (m *Matcher) Match(text string) Result {
	if !m.cfg.IsCaseSensitive {
		text = strings.ToLower(text)
	}

	// Full equality needs no scan and is the only way to score 0.
	if m.pattern == text {
		result := Result{IsMatch: true, Score: 0}
		if m.cfg.IncludeMatches {
			result.Ranges = []Range{{Start: 0, End: len([]rune(text)) - 1}}
		}
		return result
	}

	if len(m.chunks) == 0 {
		return Result{IsMatch: false, Score: 1}
	}

	runes := []rune(text)

	var (
		totalScore float64
		hasMatch   bool
		allRanges  []Range
	)

	for _, c := range m.chunks {
		cfg := m.cfg
		cfg.Location = m.cfg.Location + c.startIndex

		res := scan(runes, c.pattern, c.alphabet, cfg)
		if res.isMatch {
			hasMatch = true
			allRanges = append(allRanges, res.ranges...)
		}
		totalScore += res.score
	}

	result := Result{IsMatch: hasMatch, Score: 1}
	if hasMatch {
		result.Score = totalScore / float64(len(m.chunks))
		if m.cfg.IncludeMatches {
			result.Ranges = allRanges
		}
	}
	return result
}

// patternAlphabet precomputes the per-rune bit masks for one chunk.
func patternAlphabet(pattern []rune) map[rune]uint32 {
	masks := make(map[rune]uint32, len(pattern))
	n := len(pattern)
	for i, r := range pattern {
		masks[r] |= 1 << uint(n-i-1)
	}
	return masks
}
