// Package rank orders candidate documents by TF-IDF cosine similarity
// against a query.
package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/research-kreat/kreat-retrieval/internal/domain"
)

// DefaultMaxFeatures caps the vocabulary size for performance.
const DefaultMaxFeatures = 2000

// Normalizer is the consumer interface for text cleanup (ISP).
type Normalizer interface {
	Normalize(text string) string
}

// Ranker builds a TF-IDF vector space over the query plus candidates
// and scores candidates by cosine similarity.
type Ranker struct {
	normalizer  Normalizer
	maxFeatures int
	stopwords   map[string]struct{}
}

// New creates a Ranker with the default vocabulary cap.
func New(normalizer Normalizer) *Ranker {
	return &Ranker{
		normalizer:  normalizer,
		maxFeatures: DefaultMaxFeatures,
		stopwords:   englishStopwords(),
	}
}

// WithMaxFeatures overrides the vocabulary cap.
func (r *Ranker) WithMaxFeatures(n int) *Ranker {
	if n > 0 {
		r.maxFeatures = n
	}
	return r
}

// Rank scores candidates against the query and returns the topN most
// similar, ordered by descending score with ties kept in input order.
// Scores are rounded to 3 decimal places. When no candidate has
// non-empty normalized text, a single sentinel error-result is returned
// instead of an empty list, so callers can tell "nothing retrievable"
// from "zero relevant".
func (r *Ranker) Rank(query string, candidates []domain.Candidate, topN int, source domain.Source) []domain.RankedResult {
	kept := make([]domain.Candidate, 0, len(candidates))
	docTexts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		text := r.normalizer.Normalize(c.Text())
		if text == "" {
			continue
		}
		kept = append(kept, c)
		docTexts = append(docTexts, text)
	}

	if len(kept) == 0 {
		return domain.ErrorResults(source, domain.MsgNoValidContent)
	}

	corpus := make([][]string, 0, len(kept)+1)
	corpus = append(corpus, r.tokenize(r.normalizer.Normalize(query)))
	for _, text := range docTexts {
		corpus = append(corpus, r.tokenize(text))
	}

	vocab, idf := r.fit(corpus)
	queryVec := vectorize(corpus[0], vocab, idf)

	type scored struct {
		cand  domain.Candidate
		score float64
	}
	results := make([]scored, len(kept))
	for i, c := range kept {
		docVec := vectorize(corpus[i+1], vocab, idf)
		results[i] = scored{cand: c, score: cosine(queryVec, docVec)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}

	out := make([]domain.RankedResult, len(results))
	for i, s := range results {
		out[i] = domain.RankedResult{
			ID:              s.cand.ID,
			Title:           s.cand.Title,
			Score:           math.Round(s.score*1000) / 1000,
			Source:          source,
			Abstract:        s.cand.Body,
			PublicationDate: s.cand.PublicationDate,
			Keywords:        s.cand.Keywords,
			URL:             s.cand.URL,
		}
	}
	return out
}

// tokenize splits normalized text and drops English stop words.
func (r *Ranker) tokenize(text string) []string {
	fields := strings.Fields(text)
	out := fields[:0]
	for _, tok := range fields {
		if _, stop := r.stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// fit builds the vocabulary (capped at maxFeatures, most frequent terms
// first) and smoothed IDF values over the corpus.
func (r *Ranker) fit(corpus [][]string) (map[string]int, []float64) {
	counts := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{}, len(doc))
		for _, tok := range doc {
			counts[tok]++
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	// Keep the most frequent terms; ties alphabetical for determinism.
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > r.maxFeatures {
		terms = terms[:r.maxFeatures]
	}

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return vocab, idf
}

// vectorize computes an L2-normalized TF-IDF vector for one document.
func vectorize(doc []string, vocab map[string]int, idf []float64) map[int]float64 {
	tf := make(map[int]float64)
	for _, tok := range doc {
		if idx, ok := vocab[tok]; ok {
			tf[idx]++
		}
	}

	norm := 0.0
	for idx := range tf {
		tf[idx] *= idf[idx]
		norm += tf[idx] * tf[idx]
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for idx := range tf {
			tf[idx] /= norm
		}
	}
	return tf
}

// cosine of two L2-normalized sparse vectors is their dot product.
func cosine(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	dot := 0.0
	for idx, v := range a {
		dot += v * b[idx]
	}
	return dot
}

func englishStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again",
		"further", "than", "so", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out",
		"off", "own", "same", "too", "very", "can", "will", "just",
		"should", "now", "all", "any", "both", "each", "few", "more",
		"most", "other", "some", "only", "not", "no", "nor", "what",
		"which", "who", "whom", "when", "where", "why", "how", "has",
		"have", "had", "does", "did", "doing",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
