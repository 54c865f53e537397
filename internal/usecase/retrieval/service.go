// Package retrieval orchestrates multi-source knowledge retrieval under
// a single wall-clock budget.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/research-kreat/kreat-retrieval/internal/domain"
	"github.com/research-kreat/kreat-retrieval/internal/logger"
	"github.com/research-kreat/kreat-retrieval/internal/metrics"
)

// Options hold the orchestration knobs.
type Options struct {
	TopN    int // result cap for the primary source
	AuxTopN int // result cap for the auxiliary source

	PrimaryFraction float64       // share of remaining budget for the primary branch
	AuxFraction     float64       // share of remaining budget for the auxiliary branch
	PrimaryCeiling  time.Duration // absolute cap on the primary sub-budget
	AuxCeiling      time.Duration // absolute cap on the auxiliary sub-budget
	SafetyMargin    time.Duration // reserved headroom before the overall deadline
}

// DefaultOptions returns the standard orchestration knobs.
func DefaultOptions() Options {
	return Options{
		TopN:            10,
		AuxTopN:         5,
		PrimaryFraction: 0.6,
		AuxFraction:     0.3,
		PrimaryCeiling:  10 * time.Second,
		AuxCeiling:      5 * time.Second,
		SafetyMargin:    2 * time.Second,
	}
}

// Service fans a retrieval call out to the chosen primary source and
// the auxiliary source concurrently, allocating sub-budgets from one
// shared budget and degrading to partial results on timeout.
type Service struct {
	docs   DocumentRepo
	graph  GraphRepo
	norm   Normalizer
	embed  Embedder
	ranker Ranker
	aux    AuxSource
	opts   Options
	logger *zap.Logger
}

// New creates a retrieval service with default options.
func New(
	docs DocumentRepo,
	graph GraphRepo,
	norm Normalizer,
	embed Embedder,
	ranker Ranker,
	aux AuxSource,
	logger *zap.Logger,
) *Service {
	return &Service{
		docs:   docs,
		graph:  graph,
		norm:   norm,
		embed:  embed,
		ranker: ranker,
		aux:    aux,
		opts:   DefaultOptions(),
		logger: logger,
	}
}

// WithOptions overrides the orchestration knobs.
func (s *Service) WithOptions(opts Options) *Service {
	s.opts = opts
	return s
}

// Retrieve runs the retrieval call. It always returns two lists
// (primary, auxiliary) and never an error: failures surface as
// sentinel results, and an unsupported source choice is a soft no-op
// yielding two empty lists.
func (s *Service) Retrieve(
	ctx context.Context, rawInput string, source domain.Source, overall time.Duration,
) ([]domain.RankedResult, []domain.RankedResult) {
	if !source.Supported() {
		s.logger.Warn("Unsupported retrieval source, returning empty results",
			zap.String("source", string(source)))
		return []domain.RankedResult{}, []domain.RankedResult{}
	}

	budget := domain.NewBudget(overall)
	query := domain.ExtractQueryText(rawInput)

	// Sub-budgets are fractions of what remains now, so setup time is
	// already subtracted.
	primaryBudget := budget.Carve(s.opts.PrimaryFraction, s.opts.PrimaryCeiling)
	auxBudget := budget.Carve(s.opts.AuxFraction, s.opts.AuxCeiling)

	primaryCh := make(chan []domain.RankedResult, 1)
	auxCh := make(chan []domain.RankedResult, 1)

	go s.runBranch(ctx, primaryCh, source, func(ctx context.Context) []domain.RankedResult {
		if source == domain.SourceDocumentStore {
			return s.fetchFromDocumentStore(ctx, query, s.opts.TopN, primaryBudget)
		}
		return s.fetchFromGraphStore(ctx, query, s.opts.TopN, primaryBudget)
	})
	go s.runBranch(ctx, auxCh, domain.SourceWebSearch, func(ctx context.Context) []domain.RankedResult {
		return s.fetchAux(ctx, query, auxBudget)
	})

	timer := time.NewTimer(budget.JoinTimeout(s.opts.SafetyMargin))
	defer timer.Stop()

	var primary, aux []domain.RankedResult
	gotPrimary, gotAux := false, false
	for !gotPrimary || !gotAux {
		select {
		case primary = <-primaryCh:
			gotPrimary = true
		case aux = <-auxCh:
			gotAux = true
		case <-timer.C:
			// Abandon unfinished branches; completed ones keep their
			// real result.
			if !gotPrimary {
				metrics.RetrievalTimeoutsTotal.WithLabelValues(string(source)).Inc()
				primary = domain.TimeoutResults(source)
				gotPrimary = true
			}
			if !gotAux {
				metrics.RetrievalTimeoutsTotal.WithLabelValues(string(domain.SourceWebSearch)).Inc()
				aux = domain.TimeoutResults(domain.SourceWebSearch)
				gotAux = true
			}
		}
	}

	if budget.ConsumedOver(0.9) {
		s.logger.Warn("Retrieval consumed over 90% of its budget",
			zap.Duration("elapsed", budget.Elapsed()),
			zap.Duration("budget", overall),
		)
	}

	return primary, aux
}

// runBranch executes one source branch, containing panics so a failing
// branch degrades to a sentinel without affecting the other.
func (s *Service) runBranch(
	ctx context.Context,
	out chan<- []domain.RankedResult,
	tag domain.Source,
	fn func(context.Context) []domain.RankedResult,
) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Retrieval branch panicked",
				zap.String("source", string(tag)),
				zap.Any("panic", r),
			)
			out <- domain.ErrorResults(tag, fmt.Sprintf("execution failed: %v", r))
		}
	}()

	// Branch code picks the tagged logger up via logger.From.
	ctx = logger.Inject(ctx, s.logger.With(zap.String("source", string(tag))))

	start := time.Now()
	results := fn(ctx)
	metrics.RetrievalBranchDuration.WithLabelValues(string(tag)).Observe(time.Since(start).Seconds())

	out <- results
}

func (s *Service) fetchAux(
	ctx context.Context, query string, budget domain.Budget,
) []domain.RankedResult {
	if s.aux == nil {
		return []domain.RankedResult{}
	}

	auxCtx, cancel := context.WithDeadline(ctx, budget.Deadline())
	defer cancel()

	return s.aux.Search(auxCtx, query, s.opts.AuxTopN)
}
