package jsondoc

import "time"

const (
	// Cache
	DefaultCacheSize = 256
	MaxCacheEntries  = 2000
	DefaultCacheTTL  = 5 * time.Minute

	// Limits
	DefaultMaxDocumentSize = 10 * 1024 * 1024
	MaxDocumentSizeLimit   = 100 * 1024 * 1024
	MinDocumentSizeLimit   = 1024
	DefaultMaxNestingDepth = 256
	MaxNestingDepthLimit   = 1000
	MaxExpressionLength    = 10000

	// Logging
	MaxLoggedPathLength  = 100
	MaxLoggedErrorLength = 200
)
