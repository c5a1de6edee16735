package jsondoc

import "time"

// Config holds processor settings
type Config struct {
	// Size limits
	MaxDocumentSize int64 `json:"max_document_size" yaml:"max_document_size"`
	MaxNestingDepth int   `json:"max_nesting_depth" yaml:"max_nesting_depth"`

	// Cache of parsed pointers and selectors
	EnableCache  bool          `json:"enable_cache" yaml:"enable_cache"`
	MaxCacheSize int           `json:"max_cache_size" yaml:"max_cache_size"`
	CacheTTL     time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// Expression parsing
	URLDecodeSelectors bool `json:"url_decode_selectors" yaml:"url_decode_selectors"`
	NormalizeKeys      bool `json:"normalize_keys" yaml:"normalize_keys"`

	EnableMetrics bool `json:"enable_metrics" yaml:"enable_metrics"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxDocumentSize: DefaultMaxDocumentSize,
		MaxNestingDepth: DefaultMaxNestingDepth,
		EnableCache:     true,
		MaxCacheSize:    DefaultCacheSize,
		CacheTTL:        DefaultCacheTTL,
		EnableMetrics:   true,
	}
}

// HighSecurityConfig returns a configuration with tight limits for untrusted input
func HighSecurityConfig() *Config {
	config := DefaultConfig()
	config.MaxDocumentSize = 1024 * 1024
	config.MaxNestingDepth = 32
	config.MaxCacheSize = 128
	config.NormalizeKeys = true
	return config
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return DefaultConfig()
	}
	clone := *c
	return &clone
}

// Validate clamps out-of-range values to usable ones
func (c *Config) Validate() error {
	if c == nil {
		return newOperationError("validate_config", "", ErrIllegalArgument)
	}

	if c.MaxDocumentSize <= 0 {
		c.MaxDocumentSize = DefaultMaxDocumentSize
	} else if c.MaxDocumentSize < MinDocumentSizeLimit {
		c.MaxDocumentSize = MinDocumentSizeLimit
	} else if c.MaxDocumentSize > MaxDocumentSizeLimit {
		c.MaxDocumentSize = MaxDocumentSizeLimit
	}

	if c.MaxNestingDepth <= 0 {
		c.MaxNestingDepth = DefaultMaxNestingDepth
	} else if c.MaxNestingDepth > MaxNestingDepthLimit {
		c.MaxNestingDepth = MaxNestingDepthLimit
	}

	if c.MaxCacheSize < 0 {
		c.MaxCacheSize = 0
		c.EnableCache = false
	} else if c.MaxCacheSize > MaxCacheEntries {
		c.MaxCacheSize = MaxCacheEntries
	}

	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	return nil
}

// parseOptions returns the expression options implied by the configuration
func (c *Config) parseOptions() []ParseOption {
	var opts []ParseOption
	if c.URLDecodeSelectors {
		opts = append(opts, WithURLDecoding())
	}
	if c.NormalizeKeys {
		opts = append(opts, WithNormalizedKeys())
	}
	return opts
}

// internal.ConfigInterface
func (c *Config) IsCacheEnabled() bool       { return c.EnableCache && c.MaxCacheSize > 0 }
func (c *Config) GetMaxCacheSize() int       { return c.MaxCacheSize }
func (c *Config) GetCacheTTL() time.Duration { return c.CacheTTL }
