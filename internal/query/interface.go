// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package query caches responses from the events API and keeps the
// cached copies coherent with what the visitor just did. Fetches for
// the same key are collapsed to one API call, results from fetches
// that started before an invalidation are discarded instead of written
// back, and booking mutations invalidate both the bookings and events
// families in one step.
package query

import (
	"context"
	"time"
)

// Store is the byte-level cache under the typed layer. Implementations
// must be safe for concurrent use.
type Store interface {
	// Get returns the cached value, or ErrCacheMiss when absent or
	// expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A zero TTL means the store's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a single key.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every key starting with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Clear removes everything.
	Clear(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// Stats describes a store's hit and miss counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Sets    int64
	Items   int
	HitRate float64
}

// StatsProvider is implemented by stores that track statistics.
type StatsProvider interface {
	Stats() Stats
}

// Error is the error type for store operations.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the store has been closed.
	ErrCacheClosed Error = "cache closed"
)
