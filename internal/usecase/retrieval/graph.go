package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/research-kreat/kreat-retrieval/internal/domain"
	"github.com/research-kreat/kreat-retrieval/internal/logger"
)

// Elapsed-budget gates for the graph branch: past the first threshold
// the network query is never attempted, past the second the fallback
// scan is skipped.
const (
	graphSkipThreshold     = 0.7
	graphFallbackThreshold = 0.9
)

// fetchFromGraphStore runs the vector-similarity query, falling back to
// a quality-ordered scan when the vector path fails or yields nothing.
func (s *Service) fetchFromGraphStore(
	ctx context.Context, query string, topN int, budget domain.Budget,
) []domain.RankedResult {
	normalized := s.norm.Normalize(query)
	embedding := s.embed.Embed(ctx, normalized)

	if budget.ConsumedOver(graphSkipThreshold) {
		return domain.ErrorResults(domain.SourceGraphStore, domain.MsgTimeLimitApproaching)
	}

	var records []domain.GraphRecord
	if embedding != nil {
		var err error
		records, err = s.graph.VectorSearch(ctx, embedding, topN, budget.Remaining())
		if err != nil {
			logger.From(ctx).Error("Vector search failed", zap.Error(err))
			records = nil
		}
	}

	if len(records) == 0 {
		if budget.ConsumedOver(graphFallbackThreshold) {
			return domain.ErrorResults(domain.SourceGraphStore, domain.MsgTimeLimitFallback)
		}

		var err error
		records, err = s.graph.QualityScan(ctx, topN, budget.Remaining())
		if err != nil {
			return domain.ErrorResults(domain.SourceGraphStore,
				fmt.Sprintf("both vector and fallback queries failed: %v", err))
		}
	} else if budget.ConsumedOver(graphFallbackThreshold) {
		logger.From(ctx).Info("Time limit approaching, returning partial graph results")
	}

	if len(records) == 0 {
		return domain.ErrorResults(domain.SourceGraphStore, domain.MsgNoGraphResults)
	}

	out := make([]domain.RankedResult, len(records))
	for i, rec := range records {
		out[i] = graphResult(rec)
	}
	return out
}

// graphResult maps a raw row into a tagged result, defaulting missing
// fields to Unknown rather than failing the call.
func graphResult(rec domain.GraphRecord) domain.RankedResult {
	return domain.RankedResult{
		ID:              orUnknown(rec.ID),
		Title:           orUnknown(rec.Title),
		Score:           rec.Score,
		Source:          domain.SourceGraphStore,
		Domain:          orUnknown(rec.Domain),
		KnowledgeType:   orUnknown(rec.KnowledgeType),
		PublicationDate: orUnknown(rec.PublicationDate),
		Country:         orUnknown(rec.Country),
		Assignees:       rec.Assignees,
		Authors:         rec.Authors,
		Keywords:        rec.Keywords,
		Subdomains:      rec.Subdomains,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return domain.Unknown
	}
	return s
}
