package internal

import (
	"sync"
	"sync/atomic"
)

// maxInternedKeyLength bounds the keys worth sharing; longer ones are copied
const maxInternedKeyLength = 128

// KeyIntern shares the storage of object keys seen repeatedly while parsing.
// Each shard holds at most maxBytes/shards bytes of keys; a full shard drops
// half of its entries.
type KeyIntern struct {
	shards    []*keyInternShard
	shardMask uint64
	shardMax  int64

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type keyInternShard struct {
	mu      sync.RWMutex
	strings map[string]string
	size    int64
}

// InternStats reports interner usage.
type InternStats struct {
	Entries   int
	Size      int64
	Hits      int64
	Misses    int64
	Evictions int64
}

// GlobalKeyIntern is shared by every text parse
var GlobalKeyIntern = NewKeyIntern(4*1024*1024, 16)

// NewKeyIntern creates an interner holding up to maxBytes of key text over
// the given number of shards, rounded up to a power of two
func NewKeyIntern(maxBytes int64, shards int) *KeyIntern {
	count := 1
	for count < shards {
		count <<= 1
	}
	ki := &KeyIntern{
		shards:    make([]*keyInternShard, count),
		shardMask: uint64(count - 1),
		shardMax:  max(maxBytes/int64(count), maxInternedKeyLength),
	}
	for i := range ki.shards {
		ki.shards[i] = &keyInternShard{strings: make(map[string]string, 64)}
	}
	return ki
}

// InternBytes returns a string equal to b, reusing an earlier copy when one
// is available
func (ki *KeyIntern) InternBytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if len(b) > maxInternedKeyLength {
		return string(b)
	}

	shard := ki.shards[fnv1aHashBytes(b)&ki.shardMask]
	shard.mu.RLock()
	s, ok := shard.strings[string(b)]
	shard.mu.RUnlock()
	if ok {
		ki.hits.Add(1)
		return s
	}
	ki.misses.Add(1)

	s = string(b)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if existing, ok := shard.strings[s]; ok {
		return existing
	}
	if shard.size+int64(len(s)) > ki.shardMax {
		shard.evictHalf()
		ki.evictions.Add(1)
	}
	shard.strings[s] = s
	shard.size += int64(len(s))
	return s
}

// evictHalf drops about half of the entries; the lock must be held
func (s *keyInternShard) evictHalf() {
	target := max(len(s.strings)/2, 1)
	for k := range s.strings {
		if target == 0 {
			break
		}
		s.size -= int64(len(k))
		delete(s.strings, k)
		target--
	}
}

// Stats returns a snapshot of the interner counters
func (ki *KeyIntern) Stats() InternStats {
	stats := InternStats{
		Hits:      ki.hits.Load(),
		Misses:    ki.misses.Load(),
		Evictions: ki.evictions.Load(),
	}
	for _, shard := range ki.shards {
		shard.mu.RLock()
		stats.Entries += len(shard.strings)
		stats.Size += shard.size
		shard.mu.RUnlock()
	}
	return stats
}

// Clear removes every interned key
func (ki *KeyIntern) Clear() {
	for _, shard := range ki.shards {
		shard.mu.Lock()
		clear(shard.strings)
		shard.size = 0
		shard.mu.Unlock()
	}
}

func fnv1aHashBytes(b []byte) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	hash := uint64(offset64)
	for _, c := range b {
		hash ^= uint64(c)
		hash *= prime64
	}
	return hash
}
