// Package cache provides the sharded LRU cache shared by the text
// pipeline. The shaper keeps shaped runs in it and the typesetter keeps
// rasterized glyph masks.
package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// ShardCount is the number of shards. It must be a power of 2.
	ShardCount = 16

	// DefaultCapacity is the default number of entries per shard.
	DefaultCapacity = 256

	shardMask = ShardCount - 1
)

// Hasher computes the hash used to select the shard of a key.
type Hasher[K any] func(K) uint64

// StringHasher computes the FNV-1a hash of s.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv never fails
	return h.Sum64()
}

// Uint64Hasher uses the key as its own hash.
func Uint64Hasher(u uint64) uint64 {
	return u
}

// Mix folds v into the hash h. It is used to build hashers for composite
// keys.
func Mix(h, v uint64) uint64 {
	h ^= v + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
	return h
}

// Stats holds cache statistics.
type Stats struct {
	Len           int
	Capacity      int // per shard
	TotalCapacity int
	Hits          uint64
	Misses        uint64
	HitRate       float64
	Evictions     uint64
}

// ShardedCache is a thread-safe LRU cache split into ShardCount shards,
// each with its own lock.
type ShardedCache[K comparable, V any] struct {
	shards   [ShardCount]*shard[K, V]
	hasher   Hasher[K]
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	lru     lruList[K]
}

type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// NewSharded creates a cache holding up to capacity entries per shard.
// If capacity <= 0, DefaultCapacity is used.
func NewSharded[K comparable, V any](capacity int, hasher Hasher[K]) *ShardedCache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &ShardedCache[K, V]{hasher: hasher, capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &shard[K, V]{entries: make(map[K]*entry[K, V])}
	}
	return c
}

func (c *ShardedCache[K, V]) shardOf(key K) *shard[K, V] {
	return c.shards[c.hasher(key)&shardMask]
}

// Get returns the cached value for key and marks it recently used.
func (c *ShardedCache[K, V]) Get(key K) (V, bool) {
	s := c.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.lru.MoveToFront(e.node)
	c.hits.Add(1)
	return e.value, true
}

// Set stores value under key, evicting the least recently used entries of
// the shard when it is full. The value is stored as is and must not be
// modified afterwards.
func (c *ShardedCache[K, V]) Set(key K, value V) {
	s := c.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	c.setLocked(s, key, value)
}

// GetOrCreate returns the cached value for key, calling create and caching
// its result on a miss. create runs with the shard locked.
func (c *ShardedCache[K, V]) GetOrCreate(key K, create func() V) V {
	s := c.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		s.lru.MoveToFront(e.node)
		c.hits.Add(1)
		return e.value
	}
	c.misses.Add(1)
	value := create()
	c.setLocked(s, key, value)
	return value
}

func (c *ShardedCache[K, V]) setLocked(s *shard[K, V], key K, value V) {
	if e, ok := s.entries[key]; ok {
		e.value = value
		s.lru.MoveToFront(e.node)
		return
	}
	for s.lru.Len() >= c.capacity {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}
	s.entries[key] = &entry[K, V]{value: value, node: s.lru.PushFront(key)}
}

// Delete removes key and reports whether it was present.
func (c *ShardedCache[K, V]) Delete(key K) bool {
	s := c.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.lru.Remove(e.node)
	delete(s.entries, key)
	return true
}

// Clear removes every entry.
func (c *ShardedCache[K, V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		clear(s.entries)
		s.lru.Clear()
		s.mu.Unlock()
	}
}

// Len returns the number of entries.
func (c *ShardedCache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Stats returns the current statistics.
func (c *ShardedCache[K, V]) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Len:           c.Len(),
		Capacity:      c.capacity,
		TotalCapacity: c.capacity * ShardCount,
		Hits:          hits,
		Misses:        misses,
		HitRate:       rate,
		Evictions:     c.evictions.Load(),
	}
}

// ResetStats sets the hit, miss and eviction counters to zero.
func (c *ShardedCache[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}
