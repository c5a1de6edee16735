package jsondoc

import (
	"net/url"

	"golang.org/x/text/unicode/norm"
)

// ParseOption configures how pointer and selector text is decoded.
type ParseOption func(*parseConfig)

type parseConfig struct {
	urlDecode bool
	normalize bool
}

// WithURLDecoding decodes percent-escapes in every level before it is
// interpreted, so that "a%2Fb" addresses the key "a/b". A '+' stays a
// literal plus sign.
func WithURLDecoding() ParseOption {
	return func(c *parseConfig) { c.urlDecode = true }
}

// WithNormalizedKeys applies Unicode NFC normalisation to every decoded level.
func WithNormalizedKeys() ParseOption {
	return func(c *parseConfig) { c.normalize = true }
}

func newParseConfig(opts []ParseOption) parseConfig {
	var cfg parseConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// decodeLevel turns one raw level into a key: URL decoding first, then the
// ~0 / ~1 escapes, then optional normalisation.
func (c parseConfig) decodeLevel(raw string) (Key, string) {
	if c.urlDecode {
		decoded, err := url.PathUnescape(raw)
		if err != nil {
			return "", "invalid percent-encoding in level '" + raw + "'"
		}
		raw = decoded
	}

	key, problem := unescapeLevel(raw)
	if problem != "" {
		return "", problem
	}
	if key == "" {
		return "", "empty level"
	}
	if c.normalize {
		key = norm.NFC.String(key)
	}
	return Key(key), ""
}
