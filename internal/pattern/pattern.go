// Package pattern parses the extended query grammar and evaluates it
// against a single text.
//
// A query is split on `|` into OR-branches; within a branch,
// space-separated tokens (quotes keep multi-word tokens together) are
// ANDed. Each token carries one operator: `=x` exact, `'x` include,
// `^x` prefix, `x$` suffix, and the inverse forms `!x`, `!^x`, `!x$`.
// Unmarked tokens fall back to approximate matching.
package pattern

import (
	"regexp"
	"strings"

	"github.com/haneul-labs/chaja-cli/internal/bitap"
)

// TokenKind identifies the operator attached to one query token.
type TokenKind int

const (
	// KindFuzzy is the fallback: bit-parallel approximate matching.
	KindFuzzy TokenKind = iota
	// KindExact requires whole-field equality.
	KindExact
	// KindInverseExact requires the field not to contain the token.
	KindInverseExact
	// KindPrefix requires the field to start with the token.
	KindPrefix
	// KindInversePrefix requires the field not to start with the token.
	KindInversePrefix
	// KindSuffix requires the field to end with the token.
	KindSuffix
	// KindInverseSuffix requires the field not to end with the token.
	KindInverseSuffix
	// KindInclude requires the field to contain the token.
	KindInclude
)

// Token is one parsed query token.
type Token struct {
	Kind TokenKind
	Text string

	matcher *bitap.Matcher // compiled for KindFuzzy only
}

// tokenForm pairs a token kind with the syntax that selects it. Quoted
// forms are tried for every kind before the unquoted forms, and within
// a pass the first form that applies wins, so order is load-bearing.
type tokenForm struct {
	kind   TokenKind
	quoted *regexp.Regexp
	plain  *regexp.Regexp
}

var tokenForms = []tokenForm{
	{KindExact, regexp.MustCompile(`^="(.*)"$`), regexp.MustCompile(`^=(.*)$`)},
	{KindInclude, regexp.MustCompile(`^'"(.*)"$`), regexp.MustCompile(`^'(.*)$`)},
	{KindPrefix, regexp.MustCompile(`^\^"(.*)"$`), regexp.MustCompile(`^\^(.*)$`)},
	{KindInversePrefix, regexp.MustCompile(`^!\^"(.*)"$`), regexp.MustCompile(`^!\^(.*)$`)},
	{KindInverseSuffix, regexp.MustCompile(`^!"(.*)"\$$`), regexp.MustCompile(`^!(.*)\$$`)},
	{KindSuffix, regexp.MustCompile(`^"(.*)"\$$`), regexp.MustCompile(`^(.*)\$$`)},
	{KindInverseExact, regexp.MustCompile(`^!"(.*)"$`), regexp.MustCompile(`^!(.*)$`)},
	{KindFuzzy, regexp.MustCompile(`^"(.*)"$`), regexp.MustCompile(`^(.*)$`)},
}

// Query is a parsed pattern ready to evaluate against texts.
type Query struct {
	branches [][]Token
	cfg      bitap.Config
}

// Parse compiles query under cfg. Parsing is total: unrecognised input
// simply becomes fuzzy tokens.
func Parse(query string, cfg bitap.Config) *Query {
	if !cfg.IsCaseSensitive {
		query = strings.ToLower(query)
	}

	q := &Query{cfg: cfg}

	for _, branch := range strings.Split(query, "|") {
		tokens := splitTokens(strings.TrimSpace(branch))
		if len(tokens) == 0 {
			continue
		}

		parsed := make([]Token, 0, len(tokens))
		for _, raw := range tokens {
			parsed = append(parsed, parseToken(raw, cfg))
		}
		q.branches = append(q.branches, parsed)
	}

	return q
}

func parseToken(raw string, cfg bitap.Config) Token {
	for _, form := range tokenForms {
		if m := form.quoted.FindStringSubmatch(raw); m != nil {
			return newToken(form.kind, m[1], cfg)
		}
	}
	for _, form := range tokenForms {
		if m := form.plain.FindStringSubmatch(raw); m != nil {
			return newToken(form.kind, m[1], cfg)
		}
	}
	// The fuzzy plain form matches anything, so this is unreachable.
	return newToken(KindFuzzy, raw, cfg)
}

func newToken(kind TokenKind, text string, cfg bitap.Config) Token {
	t := Token{Kind: kind, Text: text}
	if kind == KindFuzzy {
		t.matcher = bitap.NewMatcher(text, cfg)
	}
	return t
}

// splitTokens splits a branch on runs of spaces, keeping quoted
// multi-word tokens intact.
func splitTokens(branch string) []string {
	var (
		tokens  []string
		current strings.Builder
		quoted  bool
	)

	flush := func() {
		if current.Len() == 0 {
			return
		}
		tokens = append(tokens, current.String())
		current.Reset()
	}

	for _, r := range branch {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case r == ' ' && !quoted:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// Match evaluates the query against text. Branches are tried left to
// right; a branch matches when every token in it matches, scoring the
// mean of its token scores, and the first matching branch wins.
func (q *Query) Match(text string) bitap.Result {
	if len(q.branches) == 0 {
		return bitap.Result{IsMatch: false, Score: 1}
	}

	folded := text
	if !q.cfg.IsCaseSensitive {
		folded = strings.ToLower(text)
	}

	for _, branch := range q.branches {
		var (
			total  float64
			ranges []bitap.Range
		)

		allMatch := true
		for _, tok := range branch {
			res := tok.match(text, folded)
			if !res.IsMatch {
				allMatch = false
				break
			}
			total += res.Score
			if q.cfg.IncludeMatches {
				ranges = append(ranges, res.Ranges...)
			}
		}

		if !allMatch {
			continue
		}

		result := bitap.Result{IsMatch: true, Score: total / float64(len(branch))}
		if q.cfg.IncludeMatches {
			result.Ranges = ranges
		}
		return result
	}

	return bitap.Result{IsMatch: false, Score: 1}
}

// match evaluates one token. Plain operators compare against the folded
// text; the fuzzy matcher folds internally and receives the original.
func (t Token) match(text, folded string) bitap.Result {
	switch t.Kind {
	case KindFuzzy:
		return t.matcher.Match(text)
	case KindExact:
		return boolResult(folded == t.Text, 0, runeLen(t.Text)-1)
	case KindInverseExact:
		return boolResult(!strings.Contains(folded, t.Text), 0, runeLen(folded)-1)
	case KindPrefix:
		return boolResult(strings.HasPrefix(folded, t.Text), 0, runeLen(t.Text)-1)
	case KindInversePrefix:
		return boolResult(!strings.HasPrefix(folded, t.Text), 0, runeLen(folded)-1)
	case KindSuffix:
		return boolResult(strings.HasSuffix(folded, t.Text), runeLen(folded)-runeLen(t.Text), runeLen(folded)-1)
	case KindInverseSuffix:
		return boolResult(!strings.HasSuffix(folded, t.Text), 0, runeLen(folded)-1)
	case KindInclude:
		return includeResult(folded, t.Text)
	default:
		return bitap.Result{IsMatch: false, Score: 1}
	}
}

// includeResult records every occurrence of needle in text.
func includeResult(text, needle string) bitap.Result {
	textRunes := []rune(text)
	needleRunes := []rune(needle)

	var ranges []bitap.Range
	from := 0
	for {
		idx := indexRunes(textRunes, needleRunes, from)
		if idx < 0 {
			break
		}
		from = idx + len(needleRunes)
		ranges = append(ranges, bitap.Range{Start: idx, End: from - 1})
	}

	if len(ranges) == 0 {
		return bitap.Result{IsMatch: false, Score: 1}
	}
	return bitap.Result{IsMatch: true, Score: 0, Ranges: ranges}
}

func boolResult(matched bool, start, end int) bitap.Result {
	if !matched {
		return bitap.Result{IsMatch: false, Score: 1}
	}
	if start < 0 {
		start = 0
	}
	return bitap.Result{IsMatch: true, Score: 0, Ranges: []bitap.Range{{Start: start, End: end}}}
}

func runeLen(s string) int {
	return len([]rune(s))
}

func indexRunes(text, needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	if len(needle) == 0 {
		return -1
	}

outer:
	for i := from; i+len(needle) <= len(text); i++ {
		for j, r := range needle {
			if text[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}
