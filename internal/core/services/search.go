package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/haneul-labs/chaja-cli/internal/bitap"
	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/hangul"
	"github.com/haneul-labs/chaja-cli/internal/index"
	"github.com/haneul-labs/chaja-cli/internal/logger"
)

// strategyBonus breaks ties when several strategies hit the same
// document: a direct hit on the text as typed always outranks an
// equally scored jamo-level hit.
var strategyBonus = map[domain.Strategy]float64{
	domain.StrategyDirect:     0.20,
	domain.StrategyInitials:   0.15,
	domain.StrategyPartial:    0.10,
	domain.StrategyDecomposed: 0.05,
}

// Ranking bonuses applied after the strategy merge.
const (
	// bonusExactName dominates everything else: typing a document's
	// exact name must surface it first.
	bonusExactName = 1.0

	// bonusNameContains rewards the query appearing verbatim in the name.
	bonusNameContains = 0.5

	// bonusContentContains rewards the query appearing verbatim in the
	// hydrated preview.
	bonusContentContains = 0.25

	// bonusRecent nudges recently modified documents up.
	bonusRecent = 0.05

	// bonusSmallFile nudges short notes above large documents.
	bonusSmallFile = 0.03
)

// candidate is one document's best strategy hit during a search.
type candidate struct {
	pos      int
	score    float64 // relevance with bonuses, higher is better
	strategy domain.Strategy
	ranges   []bitap.Range // name ranges from the direct strategy
}

// Search runs every applicable query strategy, merges their hits per
// document and returns ranked results, best first.
func (e *Engine) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	defer logger.Timing("search", time.Now())
	logger.Debug("Query: %q", query)

	// Return empty for empty query
	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, domain.ErrEngineClosed
	}

	// Determine limit (default from settings)
	limit := opts.Limit
	if limit <= 0 {
		limit = e.settings.ResultLimit
	}

	candidates := e.runStrategies(query)
	ranked := e.rank(query, candidates)
	results := e.toResults(ranked, limit)
	targets := e.hydrationTargets(ranked)
	e.mu.RUnlock()

	// Warm the content of the best hits so the next query can match
	// inside their text.
	e.hydrator.enqueue(targets)

	logger.Info("Final results: %d", len(results))
	return results, nil
}

// runStrategies executes each applicable strategy and keeps the best
// scoring hit per document. Callers hold e.mu.
func (e *Engine) runStrategies(query string) map[int]candidate {
	candidates := make(map[int]candidate)

	merge := func(strategy domain.Strategy, hits []index.Hit) {
		logger.Debug("Strategy %s: %d hits", strategy, len(hits))
		for _, hit := range hits {
			// Jamo-level ranges index into the decomposed text, not the
			// name as displayed, so only the direct strategy reports them.
			var ranges []bitap.Range
			if strategy == domain.StrategyDirect {
				ranges = hit.Ranges[fieldName]
			}

			cand := candidate{
				pos:      hit.DocIndex,
				score:    (1 - hit.Score) + strategyBonus[strategy],
				strategy: strategy,
				ranges:   ranges,
			}
			prev, seen := candidates[hit.DocIndex]
			if seen {
				if prev.score >= cand.score {
					continue
				}
				// Name ranges only come from the direct strategy; keep
				// them even when a jamo-level strategy scores higher.
				if cand.ranges == nil {
					cand.ranges = prev.ranges
				}
			}
			candidates[hit.DocIndex] = cand
		}
	}

	// 1. Direct: the query as typed, against names and content.
	merge(domain.StrategyDirect, e.direct.Search(query))

	// 2. Initials: a bare-consonant query like ㅊㅈ against each name's
	// leading consonants.
	if hangul.OnlyLeadingConsonants(query) {
		merge(domain.StrategyInitials, e.initials.Search(query))
	}

	// 3. Partial: a query mixing whole syllables with a trailing bare
	// consonant (an in-progress syllable), matched in jamo space.
	decomposed := hangul.Decompose(query)
	ranPartial := false
	if hangul.ContainsSyllable(query) && strings.ContainsFunc(query, hangul.IsLeadingConsonant) {
		merge(domain.StrategyPartial, e.atomic.Search(decomposed))
		ranPartial = true
	}

	// 4. Decomposed: the jamo-level fallback that makes typos inside a
	// syllable survivable. Skipped when partial already scanned the
	// atomic index with the identical query; it could only lose the
	// merge to partial's larger bonus.
	if decomposed != query && !ranPartial {
		merge(domain.StrategyDecomposed, e.atomic.Search(decomposed))
	}

	return candidates
}

// rank applies the final ranking bonuses and sorts best first.
// Ties break on the document name to keep ordering deterministic.
// Callers hold e.mu.
func (e *Engine) rank(query string, candidates map[int]candidate) []candidate {
	folded := strings.ToLower(query)

	ranked := make([]candidate, 0, len(candidates))
	for _, cand := range candidates {
		cand.score += e.rankingBonus(folded, e.entries[cand.pos])
		ranked = append(ranked, cand)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return e.entries[ranked[i].pos].ref.Name < e.entries[ranked[j].pos].ref.Name
	})

	return ranked
}

// rankingBonus scores the query-independent and verbatim-match signals.
// Callers hold e.mu.
func (e *Engine) rankingBonus(foldedQuery string, ent *entry) float64 {
	bonus := 0.0

	switch {
	case ent.foldedName == foldedQuery:
		bonus += bonusExactName
	case strings.Contains(ent.foldedName, foldedQuery):
		bonus += bonusNameContains
	}

	if ent.contentLoaded && ent.foldedContent != "" && strings.Contains(ent.foldedContent, foldedQuery) {
		bonus += bonusContentContains
	}
	if e.settings.RecentWindow > 0 && time.Since(ent.ref.ModifiedAt) <= e.settings.RecentWindow {
		bonus += bonusRecent
	}
	if ent.ref.Size > 0 && ent.ref.Size <= e.settings.SmallFileSize {
		bonus += bonusSmallFile
	}

	return bonus
}

// toResults converts the top ranked candidates into domain results.
// Callers hold e.mu.
func (e *Engine) toResults(ranked []candidate, limit int) []domain.SearchResult {
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]domain.SearchResult, 0, len(ranked))
	for _, cand := range ranked {
		ent := e.entries[cand.pos]
		result := domain.SearchResult{
			Ref:      ent.ref,
			Score:    cand.score,
			Strategy: cand.strategy,
			Preview:  ent.content,
		}
		for _, r := range cand.ranges {
			result.NameRanges = append(result.NameRanges, domain.MatchRange{Start: r.Start, End: r.End})
		}
		results = append(results, result)
	}
	return results
}

// hydrationTargets picks the top ranked documents still missing content.
// Callers hold e.mu.
func (e *Engine) hydrationTargets(ranked []candidate) []domain.DocumentRef {
	var refs []domain.DocumentRef
	for i, cand := range ranked {
		if i >= e.settings.HydrateTopK {
			break
		}
		if ent := e.entries[cand.pos]; !ent.contentLoaded {
			refs = append(refs, ent.ref)
		}
	}
	return refs
}
