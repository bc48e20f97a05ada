package nar

import "go.uber.org/zap"

// Option configures a decode.
type Option func(*config)

type config struct {
	logger        *zap.Logger
	maxDepth      int
	strictEnd     bool
	canonical     bool
	requireTarget bool
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = Logger()
	}
	return c
}

// WithStrictEnd rejects bytes following the top-level entry.
func WithStrictEnd() Option {
	return func(c *config) { c.strictEnd = true }
}

// WithCanonicalOrder rejects directories whose entries are not in strictly
// ascending byte order, and entry names that could not appear on disk
// (empty, ".", "..", or containing '/' or NUL).
func WithCanonicalOrder() Option {
	return func(c *config) { c.canonical = true }
}

// WithRequireTargetTag rejects symlinks that omit the "target" keyword.
func WithRequireTargetTag() Option {
	return func(c *config) { c.requireTarget = true }
}

// WithMaxDepth limits directory nesting. The root is depth 0; zero
// means no limit.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// WithLogger overrides the package logger for one call.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}
