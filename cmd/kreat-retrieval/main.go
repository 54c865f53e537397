package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/research-kreat/kreat-retrieval/internal/config"
	"github.com/research-kreat/kreat-retrieval/internal/domain"
	"github.com/research-kreat/kreat-retrieval/internal/embedding"
	"github.com/research-kreat/kreat-retrieval/internal/kv"
	kvMemory "github.com/research-kreat/kreat-retrieval/internal/kv/memory"
	kvRedis "github.com/research-kreat/kreat-retrieval/internal/kv/redis"
	logpkg "github.com/research-kreat/kreat-retrieval/internal/logger"
	"github.com/research-kreat/kreat-retrieval/internal/metrics"
	"github.com/research-kreat/kreat-retrieval/internal/rank"
	"github.com/research-kreat/kreat-retrieval/internal/repository/docstore"
	"github.com/research-kreat/kreat-retrieval/internal/repository/graphstore"
	"github.com/research-kreat/kreat-retrieval/internal/repository/websearch"
	"github.com/research-kreat/kreat-retrieval/internal/textnorm"
	retrievaluc "github.com/research-kreat/kreat-retrieval/internal/usecase/retrieval"
	"github.com/research-kreat/kreat-retrieval/internal/version"
)

var (
	flagSource  string
	flagTimeout int
	flagTopN    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kreat-retrieval",
		Short: "Multi-source knowledge retrieval engine",
		Long: `kreat-retrieval ranks knowledge records from a document store
(lexical search) and a property graph (vector similarity with a
quality-ordered fallback) against a free-text query, under a hard
wall-clock budget with graceful partial-result degradation.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("kreat-retrieval %s\n", version.String())
		},
	})

	retrieveCmd := &cobra.Command{
		Use:   "retrieve [query]",
		Short: "Run one retrieval call and print the ranked results",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRetrieve(args[0])
		},
	}
	retrieveCmd.Flags().StringVar(&flagSource, "source", "graph_store", "primary source: document_store or graph_store")
	retrieveCmd.Flags().IntVar(&flagTimeout, "timeout", 0, "overall timeout in seconds (0 = config default)")
	retrieveCmd.Flags().IntVar(&flagTopN, "top-n", 0, "result cap (0 = config default)")
	rootCmd.AddCommand(retrieveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRetrieve(query string) error {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.RegisterRetrievalMetrics()

	ctx := context.Background()

	mongoClient, err := docstore.Connect(ctx, docstoreConfig(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(ctx) }()

	graphDriver, err := graphstore.Connect(graphstoreConfig(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = graphDriver.Close(ctx) }()

	cache, err := newCacheStore(cfg, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	// One normalizer instance so the graph branch and the ranker share
	// a single memoization cache.
	norm := textnorm.New()

	svc := retrievaluc.New(
		docstore.New(mongoClient, docstoreConfig(cfg), logger),
		graphstore.New(graphDriver, graphstoreConfig(cfg), logger),
		norm,
		buildEmbedder(cfg, cache, logger),
		rank.New(norm),
		websearch.NewStatic(),
		logger,
	).WithOptions(retrievalOptions(cfg))

	overall := time.Duration(cfg.Retrieval.OverallTimeoutSec) * time.Second
	if flagTimeout > 0 {
		overall = time.Duration(flagTimeout) * time.Second
	}

	primary, aux := svc.Retrieve(ctx, query, domain.Source(flagSource), overall)

	out := map[string][]domain.RankedResult{
		"primary":   primary,
		"auxiliary": aux,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// buildEmbedder assembles the decorator chain: Azure -> retrying client -> cached.
func buildEmbedder(cfg config.Config, cache kv.Store, logger *zap.Logger) retrievaluc.Embedder {
	embCfg := embedding.Config{
		Endpoint:   cfg.Embedding.Endpoint,
		APIKey:     cfg.Embedding.APIKey,
		APIVersion: cfg.Embedding.APIVersion,
		Deployment: cfg.Embedding.Deployment,
	}

	var provider embedding.Provider
	if embCfg.Enabled() {
		provider = embedding.NewAzureProvider(embCfg)
	}

	client := embedding.New(provider, cfg.Embedding.MaxRetries, logger)
	return embedding.NewCached(client, cache, logger)
}

func newCacheStore(cfg config.Config, logger *zap.Logger) (kv.Store, error) {
	switch cfg.Cache.Driver {
	case "redis":
		store, err := kvRedis.NewStore(kvRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		logger.Info("Using redis embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
		return store, nil
	default:
		return kvMemory.NewStore(), nil
	}
}

func docstoreConfig(cfg config.Config) docstore.Config {
	return docstore.Config{
		URI:                    cfg.Mongo.URI,
		Database:               cfg.Mongo.Database,
		Collections:            cfg.Mongo.Collections,
		FetchLimit:             cfg.Mongo.FetchLimit,
		MaxPoolSize:            cfg.Mongo.MaxPoolSize,
		ServerSelectionTimeout: time.Duration(cfg.Mongo.ServerSelectionTimeoutSec) * time.Second,
		ConnectTimeout:         time.Duration(cfg.Mongo.ConnectTimeoutSec) * time.Second,
	}
}

func graphstoreConfig(cfg config.Config) graphstore.Config {
	return graphstore.Config{
		URI:                   cfg.Neo4j.URI,
		Username:              cfg.Neo4j.Username,
		Password:              cfg.Neo4j.Password,
		MaxConnectionLifetime: time.Duration(cfg.Neo4j.MaxConnectionLifetimeSec) * time.Second,
		VectorIndex:           cfg.Neo4j.VectorIndex,
		NumNeighbors:          cfg.Neo4j.NumNeighbors,
	}
}

func retrievalOptions(cfg config.Config) retrievaluc.Options {
	opts := retrievaluc.DefaultOptions()
	opts.TopN = cfg.Retrieval.TopN
	opts.AuxTopN = cfg.Retrieval.AuxTopN
	opts.PrimaryCeiling = time.Duration(cfg.Retrieval.PrimaryTimeoutCapSec) * time.Second
	opts.AuxCeiling = time.Duration(cfg.Retrieval.AuxTimeoutCapSec) * time.Second
	opts.SafetyMargin = time.Duration(cfg.Retrieval.SafetyMarginSec) * time.Second
	if flagTopN > 0 {
		opts.TopN = flagTopN
	}
	return opts
}
