// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package query

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestStore() *MemoryStore {
	return NewMemoryStore(MemoryStoreOptions{DefaultTTL: time.Minute})
}

func TestMemoryStoreSetGet(t *testing.T) {
	s := newTestStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, "events:list", []byte("v1"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "events:list")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("got %q, want %q", got, "v1")
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("got %v, want ErrCacheMiss", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := newTestStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired entry returned %v, want ErrCacheMiss", err)
	}
}

func TestMemoryStoreDeleteByPrefix(t *testing.T) {
	s := newTestStore()
	defer s.Close()
	ctx := context.Background()

	keys := []string{"events:list?page=1", "events:detail:e1", "bookings:list:u1"}
	for _, k := range keys {
		if err := s.Set(ctx, k, []byte("v"), 0); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	if err := s.DeleteByPrefix(ctx, "events:"); err != nil {
		t.Fatalf("delete by prefix: %v", err)
	}

	for _, k := range keys[:2] {
		if _, err := s.Get(ctx, k); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("%s survived prefix delete", k)
		}
	}
	if _, err := s.Get(ctx, "bookings:list:u1"); err != nil {
		t.Errorf("other family was deleted: %v", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := newTestStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("abc"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	first, _ := s.Get(ctx, "k")
	first[0] = 'x'
	second, _ := s.Get(ctx, "k")
	if string(second) != "abc" {
		t.Errorf("cached value mutated through returned slice: %q", second)
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	s := newTestStore()
	s.Close()

	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after close: %v, want ErrCacheClosed", err)
	}
	if err := s.Set(context.Background(), "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after close: %v, want ErrCacheClosed", err)
	}
}

func TestMemoryStoreStats(t *testing.T) {
	s := newTestStore()
	defer s.Close()
	ctx := context.Background()

	_ = s.Set(ctx, "k", []byte("v"), 0)
	_, _ = s.Get(ctx, "k")
	_, _ = s.Get(ctx, "missing")

	st := s.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Sets != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.HitRate != 50 {
		t.Errorf("hit rate = %v, want 50", st.HitRate)
	}
}
