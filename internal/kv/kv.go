// Package kv defines the key-value contract backing the process caches.
package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound signals a cache miss.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is the narrow key-value surface the caches consume.
// Entries are immutable once written; a racing overwrite stores the
// same value, so last-writer-wins is harmless.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close()
}
