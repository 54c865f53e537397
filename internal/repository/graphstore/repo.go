// Package graphstore queries the Neo4j property graph: a vector-index
// lookup with relation enrichment, and a quality-ordered fallback scan.
package graphstore

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neo4jcfg "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	"go.uber.org/zap"

	"github.com/research-kreat/kreat-retrieval/internal/domain"
)

// Config holds graph store connection and query settings.
type Config struct {
	URI                   string
	Username              string
	Password              string
	MaxConnectionLifetime time.Duration
	VectorIndex           string
	NumNeighbors          int
}

// Connect opens the shared Neo4j driver. Opened once per process and
// reused across calls; the driver is safe for concurrent use.
func Connect(cfg Config) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *neo4jcfg.Config) {
			c.MaxConnectionLifetime = cfg.MaxConnectionLifetime
		},
	)
	if err != nil {
		return nil, fmt.Errorf("connect graph store: %w", err)
	}
	return driver, nil
}

// Repo runs read queries against the graph store.
type Repo struct {
	driver    neo4j.DriverWithContext
	index     string
	neighbors int
	logger    *zap.Logger
}

// New creates a graph store repository.
func New(driver neo4j.DriverWithContext, cfg Config, logger *zap.Logger) *Repo {
	return &Repo{
		driver:    driver,
		index:     cfg.VectorIndex,
		neighbors: cfg.NumNeighbors,
		logger:    logger,
	}
}

// VectorSearch finds the topN nearest indexed nodes to the embedding,
// enriched with related entities, ordered by similarity descending.
func (r *Repo) VectorSearch(
	ctx context.Context, embedding []float32, topN int, timeout time.Duration,
) ([]domain.GraphRecord, error) {
	params := map[string]any{
		"index_name":    r.index,
		"num_neighbors": r.neighbors,
		"embedding":     toFloat64(embedding),
		"limit":         topN,
	}
	return r.run(ctx, vectorQuery, params, timeout)
}

// QualityScan is the fallback: the 20 highest data-quality nodes,
// enriched, capped at topN.
func (r *Repo) QualityScan(
	ctx context.Context, topN int, timeout time.Duration,
) ([]domain.GraphRecord, error) {
	return r.run(ctx, fallbackQuery, map[string]any{"limit": topN}, timeout)
}

func (r *Repo) run(
	ctx context.Context, query string, params map[string]any, timeout time.Duration,
) ([]domain.GraphRecord, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	collected, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	}, neo4j.WithTxTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("graph query: %w", err)
	}

	records := collected.([]*neo4j.Record)
	out := make([]domain.GraphRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, toGraphRecord(rec.AsMap()))
	}
	return out, nil
}

func toGraphRecord(row map[string]any) domain.GraphRecord {
	return domain.GraphRecord{
		ID:               stringField(row, "id"),
		Title:            stringField(row, "title"),
		Score:            floatField(row, "similarity_score"),
		Domain:           stringField(row, "domain"),
		KnowledgeType:    stringField(row, "knowledge_type"),
		PublicationDate:  stringField(row, "publication_date"),
		Country:          stringField(row, "country"),
		DataQualityScore: floatField(row, "data_quality_score"),
		Assignees:        stringsField(row, "assignees"),
		Authors:          stringsField(row, "authors"),
		Keywords:         stringsField(row, "keywords"),
		Subdomains:       stringsField(row, "subdomains"),
	}
}

func stringField(row map[string]any, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func floatField(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func stringsField(row map[string]any, key string) []string {
	items, ok := row[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}
