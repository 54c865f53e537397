// Package memory provides the default in-process kv.Store.
package memory

import (
	"context"
	"sync"

	"github.com/research-kreat/kreat-retrieval/internal/kv"
)

// Compile-time check: Store implements kv.Store.
var _ kv.Store = (*Store)(nil)

// Store is an unbounded in-process map. Entries live for the process
// lifetime and are never invalidated.
type Store struct {
	m sync.Map
}

// NewStore creates an empty in-process store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.m.Load(key)
	if !ok {
		return nil, kv.ErrKeyNotFound
	}
	return v.([]byte), nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.m.Store(key, value)
	return nil
}

// Close is a no-op for the in-process store.
func (s *Store) Close() {}
