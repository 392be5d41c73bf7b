package engine

import "go.uber.org/zap"

// ============================================================================
// ENGINE OPTIONS — Functional options for Merge()
// ============================================================================

// Option configures Merge via functional options pattern.
type Option func(*config)

type config struct {
	CaseInsensitive bool // fold text keys; single-column keys only
	Logger          *zap.Logger
}

// WithCaseInsensitiveKey groups text keys case-insensitively. Merge rejects
// it for composite keys.
func WithCaseInsensitiveKey(on bool) Option {
	return func(c *config) {
		c.CaseInsensitive = on
	}
}

// WithLogger sets the logger Merge reports progress to.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
