// Package index implements a weighted, multi-field in-memory document
// index with per-field length normalisation.
//
// Each document contributes one value (or several sub-values) per key.
// A search runs the query against every field of every record and folds
// the per-field scores into a single per-document score, weighting by
// the key's normalised weight and the field's length norm.
package index

import (
	"math"
	"strings"

	"github.com/haneul-labs/chaja-cli/internal/bitap"
	"github.com/haneul-labs/chaja-cli/internal/pattern"
)

// machineEpsilon substitutes a zero field score inside the multiplicative
// fold so a perfect field match does not annihilate the whole product.
const machineEpsilon = 2.220446049250313e-16

// Key describes one searchable field. A zero Weight means 1; weights are
// normalised against their sum at construction.
type Key struct {
	Name   string
	Weight float64
}

// Config carries the matching knobs an index applies per search.
type Config struct {
	// Matcher configures the approximate matcher built for each query.
	Matcher bitap.Config

	// FieldNormWeight scales how strongly field length affects scores.
	// 0 disables length normalisation entirely.
	FieldNormWeight float64

	// UseExtendedGrammar routes queries through the pattern grammar
	// instead of matching the raw query text.
	UseExtendedGrammar bool
}

// Values is one document's field extraction: key name to one or many
// sub-values. Blank sub-values are not indexed.
type Values map[string][]string

// fieldValue is one stored sub-value with its cached length norm.
type fieldValue struct {
	value string
	norm  float64
}

// record is one indexed document.
type record struct {
	pos    int // position in the source collection
	fields map[string][]fieldValue
}

// Hit is one matching document.
type Hit struct {
	// DocIndex is the document's position in the source collection.
	DocIndex int

	// Score multiplies the per-field contributions; 0 is a perfect
	// match across every weighted field, 1 the worst still matching.
	Score float64

	// Ranges holds matched rune ranges per key name when the matcher
	// configuration requests them.
	Ranges map[string][]bitap.Range
}

// Index is the weighted multi-field index. It is not safe for concurrent
// mutation; the orchestrator serialises access.
type Index struct {
	keys    []Key
	cfg     Config
	norm    *normCache
	records []record
}

// New validates keys, normalises their weights and returns an empty index.
func New(keys []Key, cfg Config) (*Index, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}

	normalised := make([]Key, len(keys))
	total := 0.0
	for i, key := range keys {
		if strings.TrimSpace(key.Name) == "" {
			return nil, ErrEmptyKeyName
		}
		if key.Weight < 0 {
			return nil, ErrNegativeWeight
		}

		weight := key.Weight
		if weight == 0 {
			weight = 1
		}
		normalised[i] = Key{Name: key.Name, Weight: weight}
		total += weight
	}

	for i := range normalised {
		normalised[i].Weight /= total
	}

	return &Index{
		keys: normalised,
		cfg:  cfg,
		norm: newNormCache(cfg.FieldNormWeight),
	}, nil
}

// Keys returns the normalised key set.
func (idx *Index) Keys() []Key {
	return idx.keys
}

// Size returns the number of indexed records.
func (idx *Index) Size() int {
	return len(idx.records)
}

// Build replaces the whole record set. The norm cache is invalidated per
// rebuild, not per document.
func (idx *Index) Build(docs []Values) {
	idx.norm.clear()
	idx.records = make([]record, 0, len(docs))
	for _, doc := range docs {
		idx.records = append(idx.records, idx.makeRecord(len(idx.records), doc))
	}
}

// Add appends one document at the next position.
func (idx *Index) Add(doc Values) {
	idx.records = append(idx.records, idx.makeRecord(len(idx.records), doc))
}

// RemoveAt splices out the record at position pos and decrements the
// positions of every later record, keeping the record-to-collection
// mapping intact without a rebuild.
func (idx *Index) RemoveAt(pos int) {
	if pos < 0 || pos >= len(idx.records) {
		return
	}

	idx.records = append(idx.records[:pos], idx.records[pos+1:]...)
	for i := pos; i < len(idx.records); i++ {
		idx.records[i].pos--
	}
}

// UpdateAt replaces the field values of the record at position pos,
// keeping its position. Out-of-range positions are ignored.
func (idx *Index) UpdateAt(pos int, doc Values) {
	if pos < 0 || pos >= len(idx.records) {
		return
	}
	idx.records[pos] = idx.makeRecord(pos, doc)
}

// UpdateConfig swaps the matching configuration. Stored norms are only
// recomputed when the norm weight actually changed.
func (idx *Index) UpdateConfig(cfg Config) {
	normChanged := cfg.FieldNormWeight != idx.cfg.FieldNormWeight
	idx.cfg = cfg

	if !normChanged {
		return
	}

	idx.norm = newNormCache(cfg.FieldNormWeight)
	for _, rec := range idx.records {
		for name, values := range rec.fields {
			for i := range values {
				values[i].norm = idx.norm.get(values[i].value)
			}
			rec.fields[name] = values
		}
	}
}

func (idx *Index) makeRecord(pos int, doc Values) record {
	rec := record{pos: pos, fields: make(map[string][]fieldValue, len(idx.keys))}

	for _, key := range idx.keys {
		for _, value := range doc[key.Name] {
			if strings.TrimSpace(value) == "" {
				continue
			}
			rec.fields[key.Name] = append(rec.fields[key.Name], fieldValue{
				value: value,
				norm:  idx.norm.get(value),
			})
		}
	}

	return rec
}

// Search runs query against every field of every record. Documents with
// no matching field are excluded. A blank query matches nothing.
func (idx *Index) Search(query string) []Hit {
	query = strings.TrimSpace(query)
	if query == "" || len(idx.records) == 0 {
		return nil
	}

	match := idx.searcher(query)

	var hits []Hit
	for _, rec := range idx.records {
		hit, ok := idx.scoreRecord(rec, match)
		if ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

// searcher compiles the query once per Search call.
func (idx *Index) searcher(query string) func(string) bitap.Result {
	if idx.cfg.UseExtendedGrammar {
		return pattern.Parse(query, idx.cfg.Matcher).Match
	}
	return bitap.NewMatcher(query, idx.cfg.Matcher).Match
}

func (idx *Index) scoreRecord(rec record, match func(string) bitap.Result) (Hit, bool) {
	score := 1.0
	matched := false
	var ranges map[string][]bitap.Range

	for _, key := range idx.keys {
		for _, fv := range rec.fields[key.Name] {
			res := match(fv.value)
			if !res.IsMatch {
				continue
			}
			matched = true

			fieldScore := res.Score
			if fieldScore == 0 {
				fieldScore = machineEpsilon
			}
			score *= math.Pow(fieldScore, key.Weight*fv.norm)

			if len(res.Ranges) > 0 {
				if ranges == nil {
					ranges = make(map[string][]bitap.Range)
				}
				ranges[key.Name] = append(ranges[key.Name], res.Ranges...)
			}
		}
	}

	if !matched {
		return Hit{}, false
	}
	return Hit{DocIndex: rec.pos, Score: score, Ranges: ranges}, true
}
