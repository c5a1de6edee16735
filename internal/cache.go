package internal

import (
	"sync"
	"sync/atomic"
	"time"
)

// CacheManager is a sharded TTL cache with per-shard LRU eviction. Keys are
// expression texts; values are their parsed forms.
type CacheManager struct {
	shards    []*cacheShard
	shardMask uint64
	config    ConfigInterface

	hitCount  atomic.Int64
	missCount atomic.Int64
	evictions atomic.Int64
}

type cacheShard struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	memory  int64
}

type cacheEntry struct {
	data       any
	created    int64 // unix nanoseconds
	lastAccess int64
	size       int64
}

// NewCacheManager creates a cache sized by config. A nil config yields a
// disabled cache.
func NewCacheManager(config ConfigInterface) *CacheManager {
	shardCount := 1
	if config != nil {
		switch size := config.GetMaxCacheSize(); {
		case size > 1000:
			shardCount = 16
		case size > 64:
			shardCount = 8
		}
	}

	shards := make([]*cacheShard, shardCount)
	for i := range shards {
		shards[i] = &cacheShard{entries: make(map[string]*cacheEntry)}
	}
	return &CacheManager{
		shards:    shards,
		shardMask: uint64(shardCount - 1),
		config:    config,
	}
}

func (cm *CacheManager) enabled() bool {
	return cm != nil && cm.config != nil && cm.config.IsCacheEnabled()
}

func (cm *CacheManager) getShard(key string) *cacheShard {
	return cm.shards[fnv1aHash(key)&cm.shardMask]
}

// Get returns the live entry stored under key
func (cm *CacheManager) Get(key string) (any, bool) {
	if !cm.enabled() {
		return nil, false
	}

	shard := cm.getShard(key)
	now := time.Now().UnixNano()

	shard.mu.Lock()
	entry, ok := shard.entries[key]
	if ok && cm.expired(entry, now) {
		shard.remove(key, entry)
		ok = false
	}
	if ok {
		entry.lastAccess = now
	}
	shard.mu.Unlock()

	if !ok {
		cm.missCount.Add(1)
		return nil, false
	}
	cm.hitCount.Add(1)
	return entry.data, true
}

// Set stores value under key, evicting the least recently used entry of the
// shard when it is full
func (cm *CacheManager) Set(key string, value any) {
	if !cm.enabled() {
		return
	}

	shard := cm.getShard(key)
	now := time.Now().UnixNano()
	entry := &cacheEntry{data: value, created: now, lastAccess: now, size: int64(len(key))*2 + 64}

	shardMax := cm.config.GetMaxCacheSize() / len(cm.shards)
	if shardMax < 1 {
		shardMax = 1
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if old, ok := shard.entries[key]; ok {
		shard.remove(key, old)
	} else if len(shard.entries) >= shardMax {
		if cm.evictLRU(shard) {
			cm.evictions.Add(1)
		}
	}
	shard.entries[key] = entry
	shard.memory += entry.size
}

func (cm *CacheManager) expired(entry *cacheEntry, now int64) bool {
	ttl := cm.config.GetCacheTTL()
	return ttl > 0 && now-entry.created > int64(ttl)
}

// evictLRU drops the least recently used entry; the shard lock must be held
func (cm *CacheManager) evictLRU(shard *cacheShard) bool {
	var oldestKey string
	var oldest *cacheEntry
	for key, entry := range shard.entries {
		if oldest == nil || entry.lastAccess < oldest.lastAccess {
			oldestKey, oldest = key, entry
		}
	}
	if oldest == nil {
		return false
	}
	shard.remove(oldestKey, oldest)
	return true
}

func (s *cacheShard) remove(key string, entry *cacheEntry) {
	delete(s.entries, key)
	s.memory -= entry.size
}

// CleanExpiredCache removes expired entries from every shard
func (cm *CacheManager) CleanExpiredCache() {
	if !cm.enabled() || cm.config.GetCacheTTL() <= 0 {
		return
	}
	now := time.Now().UnixNano()
	for _, shard := range cm.shards {
		shard.mu.Lock()
		for key, entry := range shard.entries {
			if cm.expired(entry, now) {
				shard.remove(key, entry)
			}
		}
		shard.mu.Unlock()
	}
}

// ClearCache removes every entry
func (cm *CacheManager) ClearCache() {
	for _, shard := range cm.shards {
		shard.mu.Lock()
		clear(shard.entries)
		shard.memory = 0
		shard.mu.Unlock()
	}
}

// GetCacheSize returns the number of cached entries
func (cm *CacheManager) GetCacheSize() int64 {
	var total int64
	for _, shard := range cm.shards {
		shard.mu.Lock()
		total += int64(len(shard.entries))
		shard.mu.Unlock()
	}
	return total
}

// GetStats returns cache statistics
func (cm *CacheManager) GetStats() CacheStats {
	var size, memory int64
	for _, shard := range cm.shards {
		shard.mu.Lock()
		size += int64(len(shard.entries))
		memory += shard.memory
		shard.mu.Unlock()
	}

	hits, misses := cm.hitCount.Load(), cm.missCount.Load()
	var hitRatio float64
	if total := hits + misses; total > 0 {
		hitRatio = float64(hits) / float64(total) * 100.0
	}

	return CacheStats{
		Size:      size,
		Memory:    memory,
		HitCount:  hits,
		MissCount: misses,
		HitRatio:  hitRatio,
		Evictions: cm.evictions.Load(),
	}
}

// fnv1aHash implements FNV-1a for string keys
func fnv1aHash(key string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	hash := uint64(offset64)
	for i := 0; i < len(key); i++ {
		hash ^= uint64(key[i])
		hash *= prime64
	}
	return hash
}

// CacheStats represents cache statistics
type CacheStats struct {
	Size      int64   `json:"size"`
	Memory    int64   `json:"memory"`
	HitCount  int64   `json:"hit_count"`
	MissCount int64   `json:"miss_count"`
	HitRatio  float64 `json:"hit_ratio"`
	Evictions int64   `json:"evictions"`
}
