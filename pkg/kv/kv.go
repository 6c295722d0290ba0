// Package kv provides a key-value store abstraction for caching finished job records.
// This allows swapping backends (Valkey/Redis, in-memory) without changing the lookup service.
package kv

import (
	"context"
	"time"
)

// Store defines a minimal key-value interface. Keys are strings, values are byte slices.
type Store interface {
	// Set stores a value with the given key and TTL.
	// If TTL is 0, the key does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value by key. Returns ErrNotFound if key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// MGet retrieves several keys at once. Missing keys are absent from the result.
	MGet(ctx context.Context, keys ...string) (map[string][]byte, error)

	// Delete removes a key. Returns nil if key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Close closes the connection to the store.
	Close() error
}
