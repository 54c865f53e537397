package embedding

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Embedder is the soft embedding contract consumed by sources: a nil
// vector is a valid value meaning "unavailable", never an error.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}

const (
	// DefaultMaxRetries is the retry budget for transient failures.
	DefaultMaxRetries = 1

	attemptTimeoutStep    = 2 * time.Second
	attemptTimeoutCeiling = 5 * time.Second
	retryBackoff          = 500 * time.Millisecond
)

// attemptTimeout grows with the attempt number (1-based) and is capped
// at a fixed ceiling: min(5s, 2s × attempt).
func attemptTimeout(attempt int) time.Duration {
	d := attemptTimeoutStep * time.Duration(attempt)
	if d > attemptTimeoutCeiling {
		d = attemptTimeoutCeiling
	}
	return d
}

// Client acquires embeddings from a Provider with per-attempt timeouts
// and a fixed short backoff between retries. Transient failures
// (timeout, 5xx) are retried up to maxRetries times; anything else
// returns nil immediately.
type Client struct {
	provider   Provider
	maxRetries int
	logger     *zap.Logger

	missingOnce sync.Once
}

// New creates a Client. provider may be nil when the deployment is not
// configured; Embed then reports embeddings as unavailable.
func New(provider Provider, maxRetries int, logger *zap.Logger) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{provider: provider, maxRetries: maxRetries, logger: logger}
}

// Embed returns the embedding for text, or nil when embeddings are
// unavailable: missing configuration, exhausted retry budget, or a
// non-retryable provider error.
func (c *Client) Embed(ctx context.Context, text string) []float32 {
	if c.provider == nil {
		c.missingOnce.Do(func() {
			c.logger.Warn("Embedding configuration absent, embeddings unavailable")
		})
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout(attempt))
		vec, err := c.provider.CreateEmbedding(attemptCtx, text)
		cancel()

		if err == nil {
			return vec
		}
		lastErr = err

		if !retryable(err) {
			c.logger.Warn("Embedding request failed", zap.Error(err))
			return nil
		}
		if attempt > c.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			c.logger.Warn("Embedding aborted", zap.Error(ctx.Err()))
			return nil
		case <-time.After(retryBackoff):
		}
	}

	c.logger.Warn("Embedding retries exhausted",
		zap.Int("max_retries", c.maxRetries),
		zap.Error(lastErr),
	)
	return nil
}
