package index

import (
	"math"
	"strings"
)

// normCache memoizes the field-length norm per distinct token count.
// The norm favours shorter fields: 1/tokenCount^(0.5*weight), rounded
// to three decimals so equal-length fields score identically.
type normCache struct {
	weight float64
	cache  map[int]float64
}

func newNormCache(weight float64) *normCache {
	return &normCache{
		weight: weight,
		cache:  make(map[int]float64),
	}
}

func (n *normCache) get(value string) float64 {
	tokens := len(strings.Fields(value))
	if norm, ok := n.cache[tokens]; ok {
		return norm
	}

	norm := 1 / math.Pow(float64(tokens), 0.5*n.weight)
	norm = math.Round(norm*1000) / 1000
	n.cache[tokens] = norm
	return norm
}

func (n *normCache) clear() {
	n.cache = make(map[int]float64)
}
