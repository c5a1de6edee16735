package internal

import "time"

// ConfigInterface is the part of the processor configuration the cache reads
type ConfigInterface interface {
	IsCacheEnabled() bool
	GetMaxCacheSize() int
	GetCacheTTL() time.Duration
}
