package jsondoc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfiguration(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()
		assert.Equal(t, int64(DefaultMaxDocumentSize), config.MaxDocumentSize)
		assert.Equal(t, DefaultMaxNestingDepth, config.MaxNestingDepth)
		assert.True(t, config.EnableCache)
		assert.Equal(t, DefaultCacheSize, config.MaxCacheSize)
		assert.Equal(t, DefaultCacheTTL, config.CacheTTL)
		assert.True(t, config.EnableMetrics)
		assert.False(t, config.URLDecodeSelectors)
		assert.False(t, config.NormalizeKeys)
		assert.True(t, config.IsCacheEnabled())
	})

	t.Run("HighSecurityConfig", func(t *testing.T) {
		config := HighSecurityConfig()
		assert.Equal(t, int64(1024*1024), config.MaxDocumentSize)
		assert.Equal(t, 32, config.MaxNestingDepth)
		assert.Equal(t, 128, config.MaxCacheSize)
		assert.True(t, config.NormalizeKeys)
	})

	t.Run("Clone", func(t *testing.T) {
		original := DefaultConfig()
		original.EnableCache = false

		cloned := original.Clone()
		assert.Equal(t, original, cloned)
		assert.NotSame(t, original, cloned)

		cloned.MaxCacheSize = 1
		assert.Equal(t, DefaultCacheSize, original.MaxCacheSize)

		var nilConfig *Config
		assert.Equal(t, DefaultConfig(), nilConfig.Clone())
	})

	t.Run("IsCacheEnabled", func(t *testing.T) {
		config := DefaultConfig()
		config.MaxCacheSize = 0
		assert.False(t, config.IsCacheEnabled())

		config.MaxCacheSize = 10
		config.EnableCache = false
		assert.False(t, config.IsCacheEnabled())
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		check  func(t *testing.T, c *Config)
	}{
		{
			name:   "zero document size uses default",
			modify: func(c *Config) { c.MaxDocumentSize = 0 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, int64(DefaultMaxDocumentSize), c.MaxDocumentSize)
			},
		},
		{
			name:   "tiny document size raised",
			modify: func(c *Config) { c.MaxDocumentSize = 10 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, int64(MinDocumentSizeLimit), c.MaxDocumentSize)
			},
		},
		{
			name:   "huge document size lowered",
			modify: func(c *Config) { c.MaxDocumentSize = 1 << 40 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, int64(MaxDocumentSizeLimit), c.MaxDocumentSize)
			},
		},
		{
			name:   "negative depth uses default",
			modify: func(c *Config) { c.MaxNestingDepth = -1 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultMaxNestingDepth, c.MaxNestingDepth)
			},
		},
		{
			name:   "excessive depth lowered",
			modify: func(c *Config) { c.MaxNestingDepth = 5000 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, MaxNestingDepthLimit, c.MaxNestingDepth)
			},
		},
		{
			name:   "negative cache size disables cache",
			modify: func(c *Config) { c.MaxCacheSize = -5 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 0, c.MaxCacheSize)
				assert.False(t, c.EnableCache)
			},
		},
		{
			name:   "excessive cache size lowered",
			modify: func(c *Config) { c.MaxCacheSize = 1 << 20 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, MaxCacheEntries, c.MaxCacheSize)
			},
		},
		{
			name:   "non-positive ttl uses default",
			modify: func(c *Config) { c.CacheTTL = -time.Second },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultCacheTTL, c.CacheTTL)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			require.NoError(t, config.Validate())
			tt.check(t, config)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		var config *Config
		err := config.Validate()
		assert.ErrorIs(t, err, ErrIllegalArgument)

		var opErr *OperationError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "validate_config", opErr.Op)
	})
}

func TestConfigSerialization(t *testing.T) {
	config := HighSecurityConfig()
	config.URLDecodeSelectors = true

	data, err := json.Marshal(config)
	require.NoError(t, err)
	var fromJSON Config
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, *config, fromJSON)

	var fromYAML Config
	require.NoError(t, yaml.Unmarshal([]byte(`
max_document_size: 2048
max_nesting_depth: 16
enable_cache: false
normalize_keys: true
`), &fromYAML))
	assert.Equal(t, int64(2048), fromYAML.MaxDocumentSize)
	assert.Equal(t, 16, fromYAML.MaxNestingDepth)
	assert.False(t, fromYAML.EnableCache)
	assert.True(t, fromYAML.NormalizeKeys)
}
