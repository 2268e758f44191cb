// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package query

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/senjalabs/senja-web/internal/monitoring"
)

// Manager coordinates the typed layer above a Store: one API call per
// key however many requests want it, per-family generation counters so
// a fetch that started before an invalidation is never written back,
// and refcounts so keys nobody reads anymore can be swept.
type Manager struct {
	store Store
	group singleflight.Group

	mu   sync.Mutex
	gens map[string]*atomic.Uint64
	refs map[string]*keyRef
}

type keyRef struct {
	count    int
	lastSeen time.Time
}

// NewManager wraps the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		gens:  make(map[string]*atomic.Uint64),
		refs:  make(map[string]*keyRef),
	}
}

// Store exposes the underlying byte store, mainly for health checks.
func (m *Manager) Store() Store { return m.store }

// Close closes the underlying store.
func (m *Manager) Close() error { return m.store.Close() }

func (m *Manager) generation(family string) *atomic.Uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gens[family]
	if !ok {
		g = &atomic.Uint64{}
		m.gens[family] = g
	}
	return g
}

// Invalidate bumps each family's generation and drops its cached
// entries. In-flight fetches for the old generation will complete but
// their results are discarded, so a page rendered after this call
// never sees pre-invalidation data.
func (m *Manager) Invalidate(ctx context.Context, families ...string) {
	for _, f := range families {
		m.generation(f).Add(1)
		if err := m.store.DeleteByPrefix(ctx, f+":"); err != nil {
			slog.Warn("query: invalidate failed", "family", f, "error", err)
		}
	}
}

// InvalidateAfterBookingChange drops both the bookings and events
// families. Booking mutations change event seat counts, so both go
// together, each exactly once.
func (m *Manager) InvalidateAfterBookingChange(ctx context.Context) {
	m.Invalidate(ctx, FamilyBookings, FamilyEvents)
}

// Retain marks a key as having a standing subscriber, keeping it safe
// from SweepUnused. Pair with Release.
func (m *Manager) Retain(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.refs[key.String()]
	if !ok {
		r = &keyRef{}
		m.refs[key.String()] = r
	}
	r.count++
	r.lastSeen = time.Now()
}

// Release drops one subscription taken with Retain.
func (m *Manager) Release(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.refs[key.String()]; ok {
		r.count--
		r.lastSeen = time.Now()
		if r.count < 0 {
			r.count = 0
		}
	}
}

// touch records that a request just read the key.
func (m *Manager) touch(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.refs[key.String()]
	if !ok {
		r = &keyRef{}
		m.refs[key.String()] = r
	}
	r.lastSeen = time.Now()
}

// SweepUnused drops cached entries that have no standing subscriber
// and have not been read for at least idle. It returns the number of
// keys removed.
func (m *Manager) SweepUnused(ctx context.Context, idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	m.mu.Lock()
	var stale []string
	for k, r := range m.refs {
		if r.count == 0 && r.lastSeen.Before(cutoff) {
			stale = append(stale, k)
			delete(m.refs, k)
		}
	}
	m.mu.Unlock()

	for _, k := range stale {
		if err := m.store.Delete(ctx, k); err != nil {
			slog.Warn("query: sweep delete failed", "key", k, "error", err)
		}
	}
	return len(stale)
}

// Fetch returns the value for key, from cache when possible. Misses
// for the same key and generation share a single call to fn. The
// result is only written back if no invalidation happened for the
// key's family while fn ran.
func Fetch[T any](ctx context.Context, m *Manager, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	ks := key.String()
	if raw, err := m.store.Get(ctx, ks); err == nil {
		var v T
		if jerr := json.Unmarshal(raw, &v); jerr == nil {
			monitoring.CacheHit(key.Family)
			m.touch(key)
			return v, nil
		}
		// Undecodable entries are dropped and refetched.
		_ = m.store.Delete(ctx, ks)
	}
	monitoring.CacheMiss(key.Family)

	v, err := refresh(ctx, m, key, fn)
	if err != nil {
		return zero, err
	}
	m.touch(key)
	return v, nil
}

// Refresh re-fetches the key without reading the cache, leaving the
// current cached copy in place until the fresh result lands. The
// background refresher uses this so readers never see a gap.
func Refresh[T any](ctx context.Context, m *Manager, key Key, fn func(context.Context) (T, error)) (T, error) {
	return refresh(ctx, m, key, fn)
}

func refresh[T any](ctx context.Context, m *Manager, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	gen := m.generation(key.Family).Load()
	// The generation is part of the flight key. Callers arriving after
	// an invalidation never join a superseded flight.
	sfKey := key.String() + "@" + strconv.FormatUint(gen, 10)

	res, err, _ := m.group.Do(sfKey, func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if m.generation(key.Family).Load() != gen {
			monitoring.StaleDiscard(key.Family)
			return v, nil
		}
		if raw, merr := json.Marshal(v); merr == nil {
			if serr := m.store.Set(ctx, key.String(), raw, 0); serr != nil {
				slog.Warn("query: cache write failed", "key", key.String(), "error", serr)
			}
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}
