// Package options provides data structures and functions for configuring
// the Ignite database. It defines various parameters that control Ignite's
// storage behavior, performance, and maintenance operations, such as
// directory paths, segment characteristics, server binding, and the worker
// pool that backs the server.
package options

import "strings"

// Defines configurable parameters for segment file placement.
type segmentOptions struct {
	// Specifies the subdirectory (relative to DataDir) where segment files
	// ("<id>.log") are stored. Empty keeps them directly in DataDir.
	//
	// Default: ""
	Directory string `json:"directory"`
}

// Defines the configuration parameters for Ignite DB.
// It provides control over storage, networking and maintenance aspects.
type Options struct {
	// Specifies the base path where files will be stored.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// Specifies which engine backend the server advertises through the
	// on-disk engine-selection marker file. Only "kvs" is actually
	// implemented; "sled" is accepted so the marker-mismatch check can be
	// exercised against a second, externally-selected backend.
	//
	// Default: "kvs"
	EngineName string `json:"engineName"`

	// Number of bytes of overwritten/removed log entries the engine will
	// tolerate before running inline compaction on the next write.
	//
	// Default: 1MiB
	StaleBytesThreshold uint64 `json:"staleBytesThreshold"`

	// Address the server binds its TCP listener to.
	//
	// Default: "127.0.0.1:4000"
	ListenAddr string `json:"listenAddr"`

	// Number of fixed worker goroutines the server's pool runs handlers on.
	//
	// Default: 8
	WorkerPoolSize int `json:"workerPoolSize"`

	// Configures segment file placement.
	SegmentOptions *segmentOptions `json:"segmentOptions"`
}

// OptionFunc is a function type that modifies the Ignite system's configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		*o = opts
	}
}

// Sets the primary data directory for Ignite.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// Sets the engine name recorded in, and checked against, the on-disk marker.
func WithEngineName(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.EngineName = name
		}
	}
}

// Sets the stale-byte threshold that triggers inline compaction.
func WithStaleBytesThreshold(bytes uint64) OptionFunc {
	return func(o *Options) {
		if bytes > 0 {
			o.StaleBytesThreshold = bytes
		}
	}
}

// Sets the directory specifically for storing segment files.
func WithSegmentDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.SegmentOptions.Directory = directory
		}
	}
}

// Sets the TCP address the server listens on.
func WithListenAddr(addr string) OptionFunc {
	return func(o *Options) {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			o.ListenAddr = addr
		}
	}
}

// Sets the number of workers in the server's handler pool.
func WithWorkerPoolSize(n int) OptionFunc {
	return func(o *Options) {
		if n > 0 {
			o.WorkerPoolSize = n
		}
	}
}
