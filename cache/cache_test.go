package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestShardedGetSet(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) should miss")
	}
	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) after update = %v, want 2", v)
	}
	if !c.Delete("a") || c.Delete("a") {
		t.Error("Delete should succeed once")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestShardedGetOrCreate(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	calls := 0
	create := func() int {
		calls++
		return 42
	}
	for range 3 {
		if v := c.GetOrCreate("glyph", create); v != 42 {
			t.Fatalf("GetOrCreate() = %d, want 42", v)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 {
		t.Errorf("stats = %+v, want 2 hits and 1 miss", st)
	}
	c.ResetStats()
	if st := c.Stats(); st.Hits != 0 || st.Misses != 0 {
		t.Errorf("stats after reset = %+v", st)
	}
}

func TestShardedEviction(t *testing.T) {
	// Every key lands in shard 0, so the per-shard capacity applies to all.
	c := NewSharded[uint64, int](2, func(uint64) uint64 { return 0 })
	c.Set(1, 1)
	c.Set(2, 2)
	c.Get(1) // 2 is now the oldest
	c.Set(3, 3)

	if _, ok := c.Get(2); ok {
		t.Error("least recently used entry should be evicted")
	}
	for _, k := range []uint64{1, 3} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("entry %d should survive", k)
		}
	}
	if st := c.Stats(); st.Evictions != 1 || st.Len != 2 {
		t.Errorf("stats = %+v, want 1 eviction and 2 entries", st)
	}
}

func TestShardedClear(t *testing.T) {
	c := NewSharded[uint64, string](0, Uint64Hasher)
	if c.Stats().Capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", c.Stats().Capacity, DefaultCapacity)
	}
	for i := range uint64(100) {
		c.Set(i, strconv.FormatUint(i, 10))
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
}

func TestShardedConcurrent(t *testing.T) {
	c := NewSharded[string, int](16, StringHasher)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := strconv.Itoa((g * i) % 64)
				c.GetOrCreate(key, func() int { return i })
				c.Get(key)
			}
		}()
	}
	wg.Wait()
	if c.Len() > 16*ShardCount {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func TestMix(t *testing.T) {
	if Mix(1, 2) == Mix(2, 1) {
		t.Error("Mix should depend on order")
	}
}

func TestLRUList(t *testing.T) {
	var l lruList[int]
	a := l.PushFront(1)
	l.PushFront(2)
	l.PushFront(3)
	l.MoveToFront(a)
	if k, _ := l.RemoveOldest(); k != 2 {
		t.Errorf("RemoveOldest() = %d, want 2", k)
	}
	l.Remove(a)
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
	l.Clear()
	if _, ok := l.RemoveOldest(); ok {
		t.Error("empty list should have no oldest")
	}
}
