package options

const (
	// Specifies the default base directory where IgniteDB will store its data files.
	// If no other directory is specified during initialization, this path will be used.
	DefaultDataDir = "/var/lib/ignitedb"

	// DefaultEngineName is the backend advertised through the on-disk marker
	// when no engine name is configured explicitly.
	DefaultEngineName = "kvs"

	// DefaultStaleBytesThreshold is the number of stale bytes the engine
	// tolerates before running inline compaction: 1 MiB.
	DefaultStaleBytesThreshold uint64 = 1024 * 1024

	// DefaultListenAddr is the address the server binds when none is configured.
	DefaultListenAddr = "127.0.0.1:4000"

	// DefaultWorkerPoolSize is the number of fixed workers the server pool runs.
	DefaultWorkerPoolSize = 8

	// DefaultSegmentDirectory is the default subdirectory within the main
	// data directory where segment files will be stored. Empty means
	// segments live directly in DataDir, matching the reference layout:
	// "<dataDir>/<id>.log" alongside ".engine_flag".
	DefaultSegmentDirectory = ""
)

// NewDefaultOptions returns the default configuration settings for an
// IgniteDB instance.
func NewDefaultOptions() Options {
	return Options{
		DataDir:             DefaultDataDir,
		EngineName:          DefaultEngineName,
		StaleBytesThreshold: DefaultStaleBytesThreshold,
		ListenAddr:          DefaultListenAddr,
		WorkerPoolSize:      DefaultWorkerPoolSize,
		SegmentOptions:      &segmentOptions{Directory: DefaultSegmentDirectory},
	}
}
