package bpe

import (
	"fmt"
	"regexp"
)

// Option is a functional option for configuring a Tokenizer.
type Option func(*tokenizerConfig) error

// WithPattern sets the pre-tokenization regular expression. If empty, an
// error is returned; if never supplied, DefaultPattern is used.
func WithPattern(pattern string) Option {
	return func(cfg *tokenizerConfig) error {
		if pattern == "" {
			return newConfigError("pattern", pattern, "empty pattern")
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return newConfigError("pattern", pattern, err.Error())
		}
		cfg.pattern = re
		return nil
	}
}

// WithWorkers sets how many goroutines the training prelude and
// EncodeStream may use. Values <= 1 disable parallelism.
func WithWorkers(n int) Option {
	return func(cfg *tokenizerConfig) error {
		if n < 1 {
			n = 1
		}
		cfg.workers = n
		return nil
	}
}

// WithCacheSize sets the maximum size of the block-level encode cache. Set
// to 0 to disable eviction (unlimited growth); default is unlimited.
func WithCacheSize(size int) Option {
	return func(cfg *tokenizerConfig) error {
		if size < 0 {
			return newConfigError("cache_size", size, "must be >= 0")
		}
		cfg.cacheSize = size
		return nil
	}
}

type configError struct {
	field  string
	value  any
	reason string
}

func (e *configError) Error() string {
	return fmt.Sprintf("config error: %s=%v: %s", e.field, e.value, e.reason)
}

func newConfigError(field string, value any, reason string) error {
	return &configError{field: field, value: value, reason: reason}
}
