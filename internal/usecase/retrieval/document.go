package retrieval

import (
	"context"

	"go.uber.org/zap"

	"github.com/research-kreat/kreat-retrieval/internal/domain"
	"github.com/research-kreat/kreat-retrieval/internal/logger"
)

// fetchFromDocumentStore retrieves candidates from the document store
// and ranks them lexically against the query.
func (s *Service) fetchFromDocumentStore(
	ctx context.Context, query string, topN int, budget domain.Budget,
) []domain.RankedResult {
	fetchCtx, cancel := context.WithDeadline(ctx, budget.Deadline())
	defer cancel()

	candidates, err := s.docs.FetchCandidates(fetchCtx)
	if err != nil {
		logger.From(ctx).Error("Document store fetch failed", zap.Error(err))
		return domain.ErrorResults(domain.SourceDocumentStore, err.Error())
	}
	if len(candidates) == 0 {
		return domain.ErrorResults(domain.SourceDocumentStore, domain.MsgNoDocuments)
	}

	// Ranking burns CPU; skip it when the caller has already moved on.
	if budget.Exhausted() {
		return domain.TimeoutResults(domain.SourceDocumentStore)
	}

	return s.ranker.Rank(query, candidates, topN, domain.SourceDocumentStore)
}
