// Package docstore fetches candidate documents from the MongoDB-backed
// document store.
package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/research-kreat/kreat-retrieval/internal/domain"
)

// Config holds document store connection and fetch settings.
type Config struct {
	URI                    string
	Database               string
	Collections            []string
	FetchLimit             int64
	MaxPoolSize            uint64
	ServerSelectionTimeout time.Duration
	ConnectTimeout         time.Duration
}

// candidateProjection keeps fetches to the minimal field set ranking needs.
var candidateProjection = bson.D{
	{Key: "title", Value: 1},
	{Key: "abstract", Value: 1},
	{Key: "_id", Value: 1},
	{Key: "publication_date", Value: 1},
	{Key: "keywords", Value: 1},
	{Key: "url", Value: 1},
}

// Connect opens the shared Mongo client. Opened once per process and
// reused across calls; the client is safe for concurrent use.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetConnectTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect document store: %w", err)
	}
	return client, nil
}

// Repo reads capped, projected candidate sets from the configured
// logical collections.
type Repo struct {
	db          *mongo.Database
	collections []string
	limit       int64
	logger      *zap.Logger
}

// New creates a document store repository.
func New(client *mongo.Client, cfg Config, logger *zap.Logger) *Repo {
	return &Repo{
		db:          client.Database(cfg.Database),
		collections: cfg.Collections,
		limit:       cfg.FetchLimit,
		logger:      logger,
	}
}

// FetchCandidates issues one capped fetch per collection concurrently
// and merges the results into a single candidate list.
func (r *Repo) FetchCandidates(ctx context.Context) ([]domain.Candidate, error) {
	lists := make([][]domain.Candidate, len(r.collections))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range r.collections {
		i, name := i, name
		g.Go(func() error {
			docs, err := r.fetchCollection(gctx, name)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", name, err)
			}
			lists[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []domain.Candidate
	for _, list := range lists {
		merged = append(merged, list...)
	}
	return merged, nil
}

func (r *Repo) fetchCollection(ctx context.Context, name string) ([]domain.Candidate, error) {
	opts := options.Find().
		SetProjection(candidateProjection).
		SetLimit(r.limit)

	cursor, err := r.db.Collection(name).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []candidateDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Candidate, len(docs))
	for i, d := range docs {
		out[i] = d.toCandidate()
	}
	return out, nil
}
