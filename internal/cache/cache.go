// Package cache provides a small Redis-backed read cache for the public
// browse endpoints (office listings, seat listings, occupancy summaries and
// the rendered chart). Entries expire on a short TTL and are additionally
// invalidated whenever a write changes seat state, so stale reads are
// bounded. A nil Redis client disables the cache entirely.
package cache

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/office-seat-allocation/internal/config"
)

// Store wraps the Redis client together with the cache configuration.
type Store struct {
	rdb *redis.Client
	cfg config.CacheConfig
}

// New constructs a Store. It returns a disabled store when rdb is nil or
// caching is turned off, which callers can use unconditionally.
func New(rdb *redis.Client, cfg config.CacheConfig) *Store {
	if rdb == nil {
		cfg.Enabled = false
	}
	return &Store{rdb: rdb, cfg: cfg}
}

// Enabled reports whether the cache is operational.
func (s *Store) Enabled() bool { return s.cfg.Enabled }

func (s *Store) key(k string) string { return s.cfg.Prefix + ":" + k }

// GetJSON loads a cached JSON entry into dest. It returns false on miss,
// disabled cache, or any Redis error; errors never propagate to the caller.
func (s *Store) GetJSON(ctx context.Context, k string, dest interface{}) bool {
	if !s.cfg.Enabled {
		return false
	}
	raw, err := s.rdb.Get(ctx, s.key(k)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

// SetJSON stores v as JSON under k with the configured TTL. Failures are
// logged and ignored.
func (s *Store) SetJSON(ctx context.Context, k string, v interface{}) {
	if !s.cfg.Enabled {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, s.key(k), raw, s.cfg.TTL).Err(); err != nil {
		log.Printf("cache: set %s failed: %v", k, err)
	}
}

// GetBytes loads a cached binary entry (the chart PNG).
func (s *Store) GetBytes(ctx context.Context, k string) ([]byte, bool) {
	if !s.cfg.Enabled {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, s.key(k)).Bytes()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	return raw, true
}

// SetBytes stores a binary entry under k with the configured TTL.
func (s *Store) SetBytes(ctx context.Context, k string, raw []byte) {
	if !s.cfg.Enabled {
		return
	}
	if err := s.rdb.Set(ctx, s.key(k), raw, s.cfg.TTL).Err(); err != nil {
		log.Printf("cache: set %s failed: %v", k, err)
	}
}

// Invalidate removes the given keys. Used after writes that change seat or
// office state.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if !s.cfg.Enabled || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.rdb.Del(ctx, full...).Err(); err != nil {
		log.Printf("cache: invalidate failed: %v", err)
	}
}
