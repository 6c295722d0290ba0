package kv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, "a", []byte("1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil || string(got) != "1" {
		t.Errorf("Get(a) = %q, %v", got, err)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 8, 5, 9, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	s.Set(ctx, "k", []byte("v"), time.Minute)
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("fresh key should be readable: %v", err)
	}

	now = now.Add(time.Minute)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired key should be gone, got %v", err)
	}
}

func TestMemoryStore_MGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Set(ctx, "x", []byte("1"), 0)
	s.Set(ctx, "y", []byte("2"), 0)

	got, err := s.MGet(ctx, "x", "nope", "y")
	if err != nil {
		t.Fatalf("MGet failed: %v", err)
	}
	if len(got) != 2 || string(got["x"]) != "1" || string(got["y"]) != "2" {
		t.Errorf("unexpected MGet result %v", got)
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	s.Set(ctx, "k", buf, 0)
	buf[0] = 'z'

	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("store must not alias caller buffers, got %q", got)
	}
}
