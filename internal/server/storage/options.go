package storage

import "os"

// DefaultMaxProbes bounds the "name (n).ext" collision search.
const DefaultMaxProbes = 10000

// Options configures an Engine.
type Options struct {
	FileMode  os.FileMode // permission bits for stored files
	DirMode   os.FileMode // permission bits for the root and temp directories
	MaxProbes int         // collision candidates tried before giving up
}

// OptionFunc is a functional option for New.
type OptionFunc func(opts *Options)

// WithFileMode sets the permission bits for stored files. Default 0644.
func WithFileMode(mode os.FileMode) OptionFunc {
	return func(opts *Options) {
		opts.FileMode = mode
	}
}

// WithDirMode sets the permission bits for created directories. Default 0755.
func WithDirMode(mode os.FileMode) OptionFunc {
	return func(opts *Options) {
		opts.DirMode = mode
	}
}

// WithMaxProbes sets how many "stem (n).ext" candidates the resolver tries.
// Values below 1 keep the default.
func WithMaxProbes(n int) OptionFunc {
	return func(opts *Options) {
		if n > 0 {
			opts.MaxProbes = n
		}
	}
}

func defaultOptions() *Options {
	return &Options{
		FileMode:  0o644,
		DirMode:   0o755,
		MaxProbes: DefaultMaxProbes,
	}
}
