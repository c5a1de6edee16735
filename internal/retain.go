package internal

import (
	"sync"
	"sync/atomic"
)

// RetainRing keeps strong references to the most recently retained values so
// that weakly referenced copies of them survive garbage collection for a
// while. Older entries are overwritten once a shard is full; the values then
// become collectable and any weak pointer to them may go nil.
type RetainRing struct {
	shards    []*retainShard
	shardMask uint64
	next      uint64 // round-robin shard selector (atomic)

	retained  int64 // total Retain calls (atomic)
	evictions int64 // overwritten entries (atomic)
}

type retainShard struct {
	mu    sync.Mutex
	slots []any
	pos   int
}

// RetainStats reports ring usage.
type RetainStats struct {
	Capacity  int
	Retained  int64
	Evictions int64
}

// NewRetainRing creates a ring holding up to capacity values in total.
// A capacity of zero or less disables retention.
func NewRetainRing(capacity int) *RetainRing {
	if capacity <= 0 {
		return &RetainRing{}
	}

	shardCount := 1
	for shardCount < 16 && shardCount*64 < capacity {
		shardCount <<= 1
	}
	perShard := (capacity + shardCount - 1) / shardCount

	shards := make([]*retainShard, shardCount)
	for i := range shards {
		shards[i] = &retainShard{slots: make([]any, perShard)}
	}
	return &RetainRing{shards: shards, shardMask: uint64(shardCount - 1)}
}

// Retain stores a strong reference to v, evicting the oldest entry of a shard when full
func (r *RetainRing) Retain(v any) {
	if r == nil || len(r.shards) == 0 {
		return
	}
	atomic.AddInt64(&r.retained, 1)

	shard := r.shards[atomic.AddUint64(&r.next, 1)&r.shardMask]
	shard.mu.Lock()
	if shard.slots[shard.pos] != nil {
		atomic.AddInt64(&r.evictions, 1)
	}
	shard.slots[shard.pos] = v
	shard.pos = (shard.pos + 1) % len(shard.slots)
	shard.mu.Unlock()
}

// Clear drops every retained reference
func (r *RetainRing) Clear() {
	if r == nil {
		return
	}
	for _, shard := range r.shards {
		shard.mu.Lock()
		clear(shard.slots)
		shard.pos = 0
		shard.mu.Unlock()
	}
}

// Capacity returns the total number of slots
func (r *RetainRing) Capacity() int {
	if r == nil || len(r.shards) == 0 {
		return 0
	}
	return len(r.shards) * len(r.shards[0].slots)
}

// Stats returns a snapshot of the ring counters
func (r *RetainRing) Stats() RetainStats {
	if r == nil {
		return RetainStats{}
	}
	return RetainStats{
		Capacity:  r.Capacity(),
		Retained:  atomic.LoadInt64(&r.retained),
		Evictions: atomic.LoadInt64(&r.evictions),
	}
}
