package jsondoc

import (
	"sync/atomic"
	"time"

	"github.com/cybergodev/jsondoc/internal"
)

// Stats describes processor activity
type Stats struct {
	CacheSize      int64          `json:"cache_size"`
	CacheMemory    int64          `json:"cache_memory"`
	MaxCacheSize   int            `json:"max_cache_size"`
	HitCount       int64          `json:"hit_count"`
	MissCount      int64          `json:"miss_count"`
	HitRatio       float64        `json:"hit_ratio"`
	Evictions      int64          `json:"evictions"`
	CacheTTL       time.Duration  `json:"cache_ttl"`
	CacheEnabled   bool           `json:"cache_enabled"`
	IsClosed       bool           `json:"is_closed"`
	OperationCount int64          `json:"operation_count"`
	ErrorCount     int64          `json:"error_count"`
	Retention      RetentionStats `json:"retention"`
}

// Metrics is a snapshot of operation metrics
type Metrics = internal.Metrics

// GetStats returns processor statistics
func (p *Processor) GetStats() Stats {
	cacheStats := p.cache.GetStats()
	return Stats{
		CacheSize:      cacheStats.Size,
		CacheMemory:    cacheStats.Memory,
		MaxCacheSize:   p.config.MaxCacheSize,
		HitCount:       cacheStats.HitCount,
		MissCount:      cacheStats.MissCount,
		HitRatio:       cacheStats.HitRatio,
		Evictions:      cacheStats.Evictions,
		CacheTTL:       p.config.CacheTTL,
		CacheEnabled:   p.config.IsCacheEnabled(),
		IsClosed:       p.IsClosed(),
		OperationCount: atomic.LoadInt64(&p.operationCount),
		ErrorCount:     atomic.LoadInt64(&p.errorCount),
		Retention:      RenderRetentionStats(),
	}
}

// GetMetrics returns operation metrics; they are only collected when
// Config.EnableMetrics is set
func (p *Processor) GetMetrics() Metrics {
	return p.metrics.GetMetrics()
}

// MetricsSummary returns a human-readable metrics report
func (p *Processor) MetricsSummary() string {
	return p.metrics.GetSummary()
}

// ClearCache drops cached pointers and selectors
func (p *Processor) ClearCache() {
	p.cache.ClearCache()
}
