// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package query

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed Store for deployments with more than
// one web process.
type RedisStore struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// NewRedisStore connects to Redis at the given URL. prefix isolates
// this app's keys from other users of the instance.
func NewRedisStore(url, prefix string, defaultTTL time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisStore{
		client:     client,
		prefix:     prefix,
		defaultTTL: defaultTTL,
	}, nil
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

// Get retrieves a value from Redis.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrCacheClosed
	}

	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.misses.Add(1)
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	s.hits.Add(1)
	return val, nil
}

// Set stores a value with the specified TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return err
	}
	s.sets.Add(1)
	return nil
}

// Delete removes a key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	return s.client.Del(ctx, s.key(key)).Err()
}

// DeleteByPrefix removes all keys starting with the given prefix.
// SCAN keeps this safe on shared instances.
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	return s.scanDelete(ctx, s.prefix+prefix+"*")
}

// Clear removes every key under the store's prefix.
func (s *RedisStore) Clear(ctx context.Context) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	return s.scanDelete(ctx, s.prefix+"*")
}

func (s *RedisStore) scanDelete(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		return s.client.Close()
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	return s.client.Ping(ctx).Err()
}

// Stats returns local counters. Redis does not track per-prefix
// hit rates, so item count is left at zero.
func (s *RedisStore) Stats() Stats {
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
		HitRate: hitRate,
	}
}

var (
	_ Store         = (*RedisStore)(nil)
	_ StatsProvider = (*RedisStore)(nil)
)
