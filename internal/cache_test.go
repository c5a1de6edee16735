package internal

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// mockConfig implements ConfigInterface for testing
type mockConfig struct {
	cacheEnabled bool
	maxCacheSize int
	cacheTTL     time.Duration
}

func (m *mockConfig) IsCacheEnabled() bool       { return m.cacheEnabled }
func (m *mockConfig) GetMaxCacheSize() int       { return m.maxCacheSize }
func (m *mockConfig) GetCacheTTL() time.Duration { return m.cacheTTL }

func TestCacheManager(t *testing.T) {
	t.Run("Creation", func(t *testing.T) {
		tests := []struct {
			size   int
			shards int
		}{
			{10, 1},
			{64, 1},
			{100, 8},
			{2000, 16},
		}
		for _, tt := range tests {
			cm := NewCacheManager(&mockConfig{cacheEnabled: true, maxCacheSize: tt.size})
			if len(cm.shards) != tt.shards {
				t.Errorf("size %d: expected %d shards, got %d", tt.size, tt.shards, len(cm.shards))
			}
		}
	})

	t.Run("BasicSetGet", func(t *testing.T) {
		cm := NewCacheManager(&mockConfig{cacheEnabled: true, maxCacheSize: 100})

		cm.Set("p:/a/b", "parsed")
		retrieved, found := cm.Get("p:/a/b")
		if !found {
			t.Fatal("Value should be found in cache")
		}
		if retrieved != "parsed" {
			t.Errorf("Expected parsed, got %v", retrieved)
		}

		cm.Set("p:/a/b", "replaced")
		retrieved, _ = cm.Get("p:/a/b")
		if retrieved != "replaced" {
			t.Errorf("Expected replaced, got %v", retrieved)
		}
		if size := cm.GetCacheSize(); size != 1 {
			t.Errorf("Expected 1 entry, got %d", size)
		}
	})

	t.Run("HitsAndMisses", func(t *testing.T) {
		cm := NewCacheManager(&mockConfig{cacheEnabled: true, maxCacheSize: 100})
		cm.Set("k", 1)

		cm.Get("k")
		cm.Get("k")
		cm.Get("missing")

		stats := cm.GetStats()
		if stats.HitCount != 2 || stats.MissCount != 1 {
			t.Errorf("Expected 2 hits and 1 miss, got %d and %d", stats.HitCount, stats.MissCount)
		}
		if stats.HitRatio < 66 || stats.HitRatio > 67 {
			t.Errorf("Unexpected hit ratio %f", stats.HitRatio)
		}
		if stats.Memory <= 0 {
			t.Errorf("Expected positive memory estimate, got %d", stats.Memory)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		for _, config := range []ConfigInterface{
			nil,
			&mockConfig{cacheEnabled: false, maxCacheSize: 100},
		} {
			cm := NewCacheManager(config)
			cm.Set("k", 1)
			if _, found := cm.Get("k"); found {
				t.Error("Disabled cache should not store entries")
			}
			if stats := cm.GetStats(); stats.MissCount != 0 {
				t.Errorf("Disabled cache should not count misses, got %d", stats.MissCount)
			}
		}
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		cm := NewCacheManager(&mockConfig{cacheEnabled: true, maxCacheSize: 10, cacheTTL: 20 * time.Millisecond})
		cm.Set("k", 1)
		cm.Set("other", 2)
		if _, found := cm.Get("k"); !found {
			t.Fatal("Fresh entry should be found")
		}

		time.Sleep(40 * time.Millisecond)
		if _, found := cm.Get("k"); found {
			t.Error("Expired entry should not be found")
		}
		if size := cm.GetCacheSize(); size != 1 {
			t.Errorf("Expired entry should be dropped on access, %d entries remain", size)
		}

		cm.CleanExpiredCache()
		if size := cm.GetCacheSize(); size != 0 {
			t.Errorf("CleanExpiredCache left %d entries", size)
		}
	})

	t.Run("LRUEviction", func(t *testing.T) {
		cm := NewCacheManager(&mockConfig{cacheEnabled: true, maxCacheSize: 3})
		cm.Set("a", 1)
		time.Sleep(time.Millisecond)
		cm.Set("b", 2)
		time.Sleep(time.Millisecond)
		cm.Set("c", 3)
		time.Sleep(time.Millisecond)

		cm.Get("a")
		cm.Set("d", 4)

		if _, found := cm.Get("b"); found {
			t.Error("Least recently used entry should be evicted")
		}
		for _, key := range []string{"a", "c", "d"} {
			if _, found := cm.Get(key); !found {
				t.Errorf("Entry %s should survive eviction", key)
			}
		}
		if evictions := cm.GetStats().Evictions; evictions != 1 {
			t.Errorf("Expected 1 eviction, got %d", evictions)
		}
	})

	t.Run("ClearCache", func(t *testing.T) {
		cm := NewCacheManager(&mockConfig{cacheEnabled: true, maxCacheSize: 100})
		for i := 0; i < 20; i++ {
			cm.Set(fmt.Sprintf("k%d", i), i)
		}
		cm.ClearCache()
		stats := cm.GetStats()
		if stats.Size != 0 || stats.Memory != 0 {
			t.Errorf("Expected empty cache, got size %d memory %d", stats.Size, stats.Memory)
		}
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		cm := NewCacheManager(&mockConfig{cacheEnabled: true, maxCacheSize: 200})

		var wg sync.WaitGroup
		for g := 0; g < 10; g++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					key := fmt.Sprintf("k%d", (id*100+i)%150)
					cm.Set(key, i)
					cm.Get(key)
				}
			}(g)
		}
		wg.Wait()

		if size := cm.GetCacheSize(); size > 200 {
			t.Errorf("Cache grew beyond its limit: %d", size)
		}
	})
}

func TestFnv1aHash(t *testing.T) {
	if fnv1aHash("") != 14695981039346656037 {
		t.Error("Empty key should hash to the offset basis")
	}
	if fnv1aHash("p:/a") == fnv1aHash("s:/a") {
		t.Error("Different keys should hash differently")
	}
	if fnv1aHash("abc") != fnv1aHash("abc") {
		t.Error("Hash should be deterministic")
	}
}
