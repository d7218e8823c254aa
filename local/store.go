// Package local implements the in-process tier: a sharded, bounded
// key->bytes store with per-entry TTL and a pluggable eviction policy.
//
// The store is split into power-of-two shards, each guarded by its own
// RWMutex and holding a map plus an intrusive MRU/LRU list. Expiry is lazy:
// an expired entry is evicted when it is next read. Capacity is an entry
// count split evenly across shards; when a shard overflows, its policy's
// least-valuable entry is evicted.
//
// Values are stored and returned as-is. The caller (the cache orchestrator)
// stores encoded payloads and treats them as immutable, so a reader racing
// an eviction still holds valid bytes.
package local

import (
	"sync/atomic"
	"time"

	"github.com/vimiix/vcache/internal/util"
	"github.com/vimiix/vcache/policy"
	"github.com/vimiix/vcache/policy/lru"
)

// DefaultCapacity is the entry limit used when Options.Capacity is not set.
const DefaultCapacity = 256

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictPolicy — removed by the active eviction policy (e.g. 2Q's A1in overflow).
	EvictPolicy EvictReason = iota
	// EvictTTL — expired, evicted lazily on access.
	EvictTTL
	// EvictCapacity — removed to satisfy the shard's entry limit.
	EvictCapacity
)

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures a Store. The zero value is usable: capacity defaults
// to DefaultCapacity, the policy to LRU, and the shard count to a
// CPU-derived power of two.
type Options struct {
	// Capacity is the total entry limit, split evenly across shards.
	Capacity int

	// Shards is the number of shards; 0 picks a CPU-derived default.
	// Rounded up to the next power of two.
	Shards int

	// Policy selects the eviction policy; nil means LRU.
	Policy policy.Policy

	// DefaultTTL applies to Set/Add when no per-entry TTL is given
	// (0 = entries do not expire).
	DefaultTTL time.Duration

	// OnEvict is called for every eviction, under the shard lock.
	OnEvict func(key string, val []byte, reason EvictReason)

	// Clock overrides the time source (tests). Nil means time.Now.
	Clock Clock
}

// Store is a sharded in-process byte store.
// All methods are safe for concurrent use by multiple goroutines.
type Store struct {
	shards []*shard
	closed atomic.Bool
	opt    Options
}

// New constructs a Store with the provided Options.
func New(opt Options) *Store {
	if opt.Capacity <= 0 {
		opt.Capacity = DefaultCapacity
	}
	if opt.Policy == nil {
		opt.Policy = lru.New()
	}

	sh := opt.Shards
	if sh <= 0 {
		sh = util.ReasonableShardCount()
	} else {
		sh = int(util.NextPow2(uint64(sh)))
	}

	perShardCap := (opt.Capacity + sh - 1) / sh
	shards := make([]*shard, sh)
	for i := range shards {
		shards[i] = newShard(perShardCap, opt.Policy, opt)
	}
	return &Store{shards: shards, opt: opt}
}

// Set inserts or updates k with the store's default TTL and promotes the
// entry according to the active policy.
func (s *Store) Set(k string, v []byte) {
	if s.closed.Load() {
		return
	}
	s.getShard(k).Set(k, v, s.defaultDeadline())
}

// SetWithTTL inserts or updates k with a per-entry TTL.
// A non-positive ttl disables expiration for this entry.
func (s *Store) SetWithTTL(k string, v []byte, ttl time.Duration) {
	if s.closed.Load() {
		return
	}
	s.getShard(k).Set(k, v, s.deadline(ttl))
}

// Add inserts k only if absent, using the default TTL.
// Returns false if the key already exists (no update is performed).
func (s *Store) Add(k string, v []byte) bool {
	if s.closed.Load() {
		return false
	}
	return s.getShard(k).Add(k, v, s.defaultDeadline())
}

// Get returns the value for k and a presence flag.
// On hit the entry is promoted; expired entries are evicted and missed.
func (s *Store) Get(k string) ([]byte, bool) {
	if s.closed.Load() {
		return nil, false
	}
	return s.getShard(k).Get(k)
}

// Contains reports whether a non-expired entry for k exists,
// without promoting it.
func (s *Store) Contains(k string) bool {
	if s.closed.Load() {
		return false
	}
	return s.getShard(k).Contains(k)
}

// Remove deletes k if present and returns true on success.
func (s *Store) Remove(k string) bool {
	if s.closed.Load() {
		return false
	}
	return s.getShard(k).Remove(k)
}

// Len returns the total number of resident entries across all shards.
func (s *Store) Len() int {
	total := 0
	for _, sh := range s.shards {
		total += sh.Len()
	}
	return total
}

// Flush drops every resident entry.
func (s *Store) Flush() {
	if s.closed.Load() {
		return
	}
	for _, sh := range s.shards {
		sh.Flush()
	}
}

// Close marks the store as closed. Future operations are ignored.
func (s *Store) Close() error {
	s.closed.Store(true)
	return nil
}

// getShard picks a shard by hashing the key.
func (s *Store) getShard(k string) *shard {
	return s.shards[util.ShardIndex(util.HashKey(k), len(s.shards))]
}

// defaultDeadline returns an absolute deadline based on DefaultTTL.
func (s *Store) defaultDeadline() int64 {
	return s.deadline(s.opt.DefaultTTL)
}

// deadline converts a relative TTL into an absolute UnixNano deadline.
// A non-positive ttl returns 0 (no expiration).
func (s *Store) deadline(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	now := time.Now().UnixNano()
	if s.opt.Clock != nil {
		now = s.opt.Clock.NowUnixNano()
	}
	return now + int64(ttl)
}
