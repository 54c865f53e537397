// Package textnorm provides deterministic text cleanup with a memoized
// process-wide cache.
package textnorm

import (
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/research-kreat/kreat-retrieval/internal/metrics"
)

var punctPattern = regexp.MustCompile(`[^\w\s]`)

// stopWords is the fixed set stripped during normalization.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {},
}

// Normalizer lowercases input, strips punctuation, removes stop words
// and tokens shorter than 3 characters. Normalization is a pure
// function of the input; identical inputs are cache hits thereafter.
// Safe for concurrent use.
type Normalizer struct {
	cache  sync.Map // exact input -> normalized string
	misses atomic.Int64
}

// New creates a Normalizer with an empty cache.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize returns the normalized form of text, from cache when seen
// before. Empty or nonsense input yields an empty string, never an error.
func (n *Normalizer) Normalize(text string) string {
	if v, ok := n.cache.Load(text); ok {
		metrics.NormalizeCacheTotal.WithLabelValues("hit").Inc()
		return v.(string)
	}

	metrics.NormalizeCacheTotal.WithLabelValues("miss").Inc()
	n.misses.Add(1)

	result := normalize(text)
	n.cache.Store(text, result)
	return result
}

// Misses returns how many calls reached the underlying implementation.
func (n *Normalizer) Misses() int64 {
	return n.misses.Load()
}

func normalize(text string) string {
	lowered := punctPattern.ReplaceAllString(strings.ToLower(text), " ")

	var kept []string
	for _, tok := range strings.Fields(lowered) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if len(tok) <= 2 {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
