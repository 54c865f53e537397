package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/research-kreat/kreat-retrieval/internal/kv"
	"github.com/research-kreat/kreat-retrieval/internal/metrics"
)

var cacheKeyPrefix = "kreat:emb_cache:"

// Cached is a caching decorator around an Embedder. Entries are keyed
// by the exact input text and never invalidated: an embedding is a pure
// function of its text, so last-writer-wins on a racing insert is
// harmless. Unavailability (nil) is not cached.
type Cached struct {
	inner  Embedder
	store  kv.Store
	logger *zap.Logger
}

// NewCached creates the caching decorator.
func NewCached(inner Embedder, store kv.Store, logger *zap.Logger) *Cached {
	return &Cached{inner: inner, store: store, logger: logger}
}

// Embed returns a cached embedding or delegates to the inner embedder.
func (c *Cached) Embed(ctx context.Context, text string) []float32 {
	key := cacheKey(text)

	if vec, ok := c.getFromCache(ctx, key); ok {
		metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
		return vec
	}
	metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()

	vec := c.inner.Embed(ctx, text)
	if vec == nil {
		return nil
	}

	c.putToCache(ctx, key, vec)
	return vec
}

func cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *Cached) getFromCache(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := bytesToVector(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (c *Cached) putToCache(ctx context.Context, key string, vec []float32) {
	if err := c.store.Set(ctx, key, vectorToCacheBytes(vec)); err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

func vectorToCacheBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
