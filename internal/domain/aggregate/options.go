// Package aggregate implements the score aggregation and ranking engine.
package aggregate

import "time"

// Option applies a configuration option to a build.
type Option func(*builder)

// WithClock injects the time source used for snapshot metadata. Builds are
// deterministic apart from this timestamp.
func WithClock(now func() time.Time) Option {
	return func(b *builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithDataFile tags the snapshot with the originating file name.
func WithDataFile(name string) Option {
	return func(b *builder) {
		b.dataFile = name
	}
}

// WithSource overrides the snapshot source tag.
func WithSource(source string) Option {
	return func(b *builder) {
		if source != "" {
			b.source = source
		}
	}
}
