// Package embedding acquires query embeddings from an Azure OpenAI
// deployment, with caching and retry on transient failures.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/research-kreat/kreat-retrieval/internal/metrics"
)

// Config holds the Azure OpenAI embedding deployment settings.
// If any field is unset, embeddings are categorically unavailable.
type Config struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
}

// Enabled reports whether every required parameter is set.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.APIVersion != "" && c.Deployment != ""
}

// Provider is the consumer interface for a single embedding call (ISP).
type Provider interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// AzureProvider calls the embeddings endpoint of an Azure OpenAI
// deployment. Safe for concurrent use.
type AzureProvider struct {
	client     *openai.Client
	deployment string
}

// NewAzureProvider creates a provider for the configured deployment.
func NewAzureProvider(cfg Config) *AzureProvider {
	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	clientCfg.APIVersion = cfg.APIVersion
	deployment := cfg.Deployment
	clientCfg.AzureModelMapperFunc = func(string) string { return deployment }

	return &AzureProvider{
		client:     openai.NewClientWithConfig(clientCfg),
		deployment: deployment,
	}
}

// CreateEmbedding implements Provider with transport-level metrics.
func (p *AzureProvider) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(p.deployment),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	})

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues("error").Inc()
		return nil, errors.New("empty embedding response")
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues("success").Inc()
	metrics.EmbeddingRequestDuration.Observe(time.Since(start).Seconds())

	return resp.Data[0].Embedding, nil
}

// retryable reports whether the failure class is transient: a timeout
// or a server-side (5xx) API error. Client errors are not retried.
func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode >= 500
	}

	return false
}
