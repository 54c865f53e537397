package retrieval

import (
	"context"
	"time"

	"github.com/research-kreat/kreat-retrieval/internal/domain"
)

// DocumentRepo fetches candidate documents (consumer interface, ISP).
type DocumentRepo interface {
	FetchCandidates(ctx context.Context) ([]domain.Candidate, error)
}

// GraphRepo runs graph store queries with a per-query timeout.
type GraphRepo interface {
	VectorSearch(ctx context.Context, embedding []float32, topN int, timeout time.Duration) ([]domain.GraphRecord, error)
	QualityScan(ctx context.Context, topN int, timeout time.Duration) ([]domain.GraphRecord, error)
}

// Normalizer is the text cleanup contract.
type Normalizer interface {
	Normalize(text string) string
}

// Embedder is the soft embedding contract: nil means unavailable.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}

// Ranker orders candidates by relevance to the query.
type Ranker interface {
	Rank(query string, candidates []domain.Candidate, topN int, source domain.Source) []domain.RankedResult
}

// AuxSource is the pluggable auxiliary retrieval branch.
type AuxSource interface {
	Search(ctx context.Context, query string, topN int) []domain.RankedResult
}
