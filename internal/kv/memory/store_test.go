package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/research-kreat/kreat-retrieval/internal/kv"
)

func TestStore_GetMissing(t *testing.T) {
	s := NewStore()

	_, err := s.Get(context.Background(), "absent")
	if !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestStore_SetGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("got %q, want %q", got, "v")
	}
}

func TestStore_OverwriteKeepsLastValue(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.Set(ctx, "k", []byte("a"))
	_ = s.Set(ctx, "k", []byte("b"))

	got, _ := s.Get(ctx, "k")
	if string(got) != "b" {
		t.Fatalf("got %q, want last write", got)
	}
}
