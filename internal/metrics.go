package internal

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const noLatency = 1<<63 - 1

// latency accumulates durations without locking
type latency struct {
	total atomic.Int64
	max   atomic.Int64
	min   atomic.Int64
}

func (l *latency) reset() {
	l.total.Store(0)
	l.max.Store(0)
	l.min.Store(noLatency)
}

func (l *latency) observe(d time.Duration) {
	ns := d.Nanoseconds()
	if ns <= 0 {
		return
	}
	l.total.Add(ns)
	raise(&l.max, ns)
	lower(&l.min, ns)
}

func (l *latency) minimum() time.Duration {
	if v := l.min.Load(); v != noLatency {
		return time.Duration(v)
	}
	return 0
}

// opCounters are the per-operation counters, created on first use
type opCounters struct {
	count  atomic.Int64
	failed atomic.Int64
	bytes  atomic.Int64
	lat    latency
}

// OperationMetrics describes one operation name
type OperationMetrics struct {
	Count      int64         `json:"count"`
	Failed     int64         `json:"failed"`
	Bytes      int64         `json:"bytes"`
	AvgLatency time.Duration `json:"avg_latency"`
	MaxLatency time.Duration `json:"max_latency"`
}

// MetricsCollector counts document operations, their latency, input sizes,
// cache effectiveness and failures by error type.
type MetricsCollector struct {
	succeeded   atomic.Int64
	failed      atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	bytes       atomic.Int64
	active      atomic.Int64
	peakActive  atomic.Int64
	lat         latency

	mu        sync.RWMutex
	ops       map[string]*opCounters
	errors    map[string]int64
	startTime time.Time
}

// NewMetricsCollector creates a collector with empty counters
func NewMetricsCollector() *MetricsCollector {
	mc := &MetricsCollector{}
	mc.Reset()
	return mc
}

func (mc *MetricsCollector) counters(name string) *opCounters {
	mc.mu.RLock()
	c := mc.ops[name]
	mc.mu.RUnlock()
	if c != nil {
		return c
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	if c = mc.ops[name]; c == nil {
		c = &opCounters{}
		c.lat.reset()
		mc.ops[name] = c
	}
	return c
}

// RecordOperation records a finished operation over a document of size bytes
func (mc *MetricsCollector) RecordOperation(name string, duration time.Duration, success bool, size int64) {
	c := mc.counters(name)
	c.count.Add(1)
	if success {
		mc.succeeded.Add(1)
	} else {
		mc.failed.Add(1)
		c.failed.Add(1)
	}
	if size > 0 {
		mc.bytes.Add(size)
		c.bytes.Add(size)
	}
	mc.lat.observe(duration)
	c.lat.observe(duration)
}

func (mc *MetricsCollector) RecordCacheHit()  { mc.cacheHits.Add(1) }
func (mc *MetricsCollector) RecordCacheMiss() { mc.cacheMisses.Add(1) }

// StartConcurrentOperation marks an operation in flight
func (mc *MetricsCollector) StartConcurrentOperation() {
	raise(&mc.peakActive, mc.active.Add(1))
}

func (mc *MetricsCollector) EndConcurrentOperation() {
	mc.active.Add(-1)
}

// RecordError counts a failure under its error type name
func (mc *MetricsCollector) RecordError(errorType string) {
	mc.mu.Lock()
	mc.errors[errorType]++
	mc.mu.Unlock()
}

// GetMetrics returns a snapshot; the maps in it are copies
func (mc *MetricsCollector) GetMetrics() Metrics {
	succeeded, failed := mc.succeeded.Load(), mc.failed.Load()
	total := succeeded + failed

	m := Metrics{
		TotalOperations:     total,
		SuccessfulOps:       succeeded,
		FailedOps:           failed,
		CacheHits:           mc.cacheHits.Load(),
		CacheMisses:         mc.cacheMisses.Load(),
		TotalProcessingTime: time.Duration(mc.lat.total.Load()),
		MaxProcessingTime:   time.Duration(mc.lat.max.Load()),
		MinProcessingTime:   mc.lat.minimum(),
		BytesProcessed:      mc.bytes.Load(),
		ActiveConcurrentOps: mc.active.Load(),
		MaxConcurrentOps:    mc.peakActive.Load(),
	}
	if total > 0 {
		m.AvgProcessingTime = m.TotalProcessingTime / time.Duration(total)
	}

	mc.mu.RLock()
	defer mc.mu.RUnlock()
	m.Uptime = time.Since(mc.startTime)
	m.ErrorsByType = make(map[string]int64, len(mc.errors))
	for k, v := range mc.errors {
		m.ErrorsByType[k] = v
	}
	m.OperationsByName = make(map[string]int64, len(mc.ops))
	m.Operations = make(map[string]OperationMetrics, len(mc.ops))
	for name, c := range mc.ops {
		om := OperationMetrics{
			Count:      c.count.Load(),
			Failed:     c.failed.Load(),
			Bytes:      c.bytes.Load(),
			MaxLatency: time.Duration(c.lat.max.Load()),
		}
		if om.Count > 0 {
			om.AvgLatency = time.Duration(c.lat.total.Load() / om.Count)
		}
		m.OperationsByName[name] = om.Count
		m.Operations[name] = om
	}
	return m
}

// Reset clears all counters and restarts the uptime clock
func (mc *MetricsCollector) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for _, c := range []*atomic.Int64{
		&mc.succeeded, &mc.failed, &mc.cacheHits, &mc.cacheMisses,
		&mc.bytes, &mc.active, &mc.peakActive,
	} {
		c.Store(0)
	}
	mc.lat.reset()
	mc.ops = make(map[string]*opCounters)
	mc.errors = make(map[string]int64)
	mc.startTime = time.Now()
}

// GetSummary renders the snapshot as a short report, one line per operation
func (mc *MetricsCollector) GetSummary() string {
	m := mc.GetMetrics()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Metrics Summary (uptime %v):\n", m.Uptime.Round(time.Millisecond))
	fmt.Fprintf(&sb, "  Operations: %d total (%d successful, %d failed), %d bytes processed\n",
		m.TotalOperations, m.SuccessfulOps, m.FailedOps, m.BytesProcessed)
	fmt.Fprintf(&sb, "  Cache: %d hits, %d misses (%.2f%% hit rate)\n",
		m.CacheHits, m.CacheMisses, hitRate(m.CacheHits, m.CacheMisses))
	fmt.Fprintf(&sb, "  Latency: avg %v, max %v, min %v\n",
		m.AvgProcessingTime, m.MaxProcessingTime, m.MinProcessingTime)
	fmt.Fprintf(&sb, "  In flight: %d (peak %d)", m.ActiveConcurrentOps, m.MaxConcurrentOps)

	names := make([]string, 0, len(m.Operations))
	for name := range m.Operations {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		om := m.Operations[name]
		fmt.Fprintf(&sb, "\n  %-8s %d calls, %d failed, avg %v", name+":", om.Count, om.Failed, om.AvgLatency)
	}
	return sb.String()
}

func hitRate(hits, misses int64) float64 {
	if total := hits + misses; total > 0 {
		return float64(hits) / float64(total) * 100
	}
	return 0
}

// Metrics is a point-in-time copy of the collector
type Metrics struct {
	TotalOperations int64 `json:"total_operations"`
	SuccessfulOps   int64 `json:"successful_ops"`
	FailedOps       int64 `json:"failed_ops"`
	CacheHits       int64 `json:"cache_hits"`
	CacheMisses     int64 `json:"cache_misses"`
	BytesProcessed  int64 `json:"bytes_processed"`

	TotalProcessingTime time.Duration `json:"total_processing_time"`
	AvgProcessingTime   time.Duration `json:"avg_processing_time"`
	MaxProcessingTime   time.Duration `json:"max_processing_time"`
	MinProcessingTime   time.Duration `json:"min_processing_time"`

	ActiveConcurrentOps int64         `json:"active_concurrent_ops"`
	MaxConcurrentOps    int64         `json:"max_concurrent_ops"`
	Uptime              time.Duration `json:"uptime"`

	ErrorsByType     map[string]int64            `json:"errors_by_type"`
	OperationsByName map[string]int64            `json:"operations_by_name"`
	Operations       map[string]OperationMetrics `json:"operations"`
}

func raise(target *atomic.Int64, v int64) {
	for cur := target.Load(); v > cur; cur = target.Load() {
		if target.CompareAndSwap(cur, v) {
			return
		}
	}
}

func lower(target *atomic.Int64, v int64) {
	for cur := target.Load(); v < cur; cur = target.Load() {
		if target.CompareAndSwap(cur, v) {
			return
		}
	}
}
