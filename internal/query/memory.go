// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package query

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryStore is the default in-process Store.
type MemoryStore struct {
	data       sync.Map
	defaultTTL time.Duration
	maxItems   int
	stopCh     chan struct{}
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStoreOptions configures the memory store.
type MemoryStoreOptions struct {
	DefaultTTL      time.Duration
	MaxItems        int           // 0 = unlimited
	CleanupInterval time.Duration // 0 = no background cleanup
}

// NewMemoryStore creates a memory store with the given options.
func NewMemoryStore(opts MemoryStoreOptions) *MemoryStore {
	s := &MemoryStore{
		defaultTTL: opts.DefaultTTL,
		maxItems:   opts.MaxItems,
		stopCh:     make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go s.cleanupLoop(opts.CleanupInterval)
	}
	return s
}

// Get retrieves a value from the store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrCacheClosed
	}

	val, ok := s.data.Load(key)
	if !ok {
		s.misses.Add(1)
		return nil, ErrCacheMiss
	}

	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		s.data.Delete(key)
		s.misses.Add(1)
		return nil, ErrCacheMiss
	}

	s.hits.Add(1)
	// Copy so callers cannot mutate the cached bytes.
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a value with the specified TTL.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}

	if s.maxItems > 0 && s.count() >= s.maxItems {
		s.removeExpired()
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	s.data.Store(key, &memoryEntry{
		value:     valueCopy,
		expiresAt: time.Now().Add(ttl),
	})
	s.sets.Add(1)
	return nil
}

// Delete removes a key from the store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	s.data.Delete(key)
	return nil
}

// DeleteByPrefix removes all keys starting with the given prefix.
func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	s.data.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			s.data.Delete(key)
		}
		return true
	})
	return nil
}

// Clear removes all entries.
func (s *MemoryStore) Clear(_ context.Context) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	s.data.Range(func(key, _ any) bool {
		s.data.Delete(key)
		return true
	})
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		close(s.stopCh)
	}
	return nil
}

// Stats returns current counters.
func (s *MemoryStore) Stats() Stats {
	hits := s.hits.Load()
	misses := s.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    s.sets.Load(),
		Items:   s.count(),
		HitRate: hitRate,
	}
}

func (s *MemoryStore) count() int {
	n := 0
	s.data.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (s *MemoryStore) removeExpired() {
	now := time.Now()
	s.data.Range(func(key, value any) bool {
		if now.After(value.(*memoryEntry).expiresAt) {
			s.data.Delete(key)
		}
		return true
	})
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopCh:
			return
		}
	}
}

var (
	_ Store         = (*MemoryStore)(nil)
	_ StatsProvider = (*MemoryStore)(nil)
)
