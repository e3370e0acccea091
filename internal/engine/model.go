package engine

import (
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/internal/storage"
	"github.com/iamNilotpal/ignite/pkg/options"
	"go.uber.org/zap"
)

// core holds every piece of state an Engine handle and its clones share. An
// Engine is a thin, cheap-to-copy wrapper around a pointer to one core, so
// cloning a handle (one per accepted connection) never copies a mutex or
// duplicates the underlying store -- every clone really is the same
// logical database.
type core struct {
	options *options.Options
	log     *zap.SugaredLogger

	idx   *index.Index
	store *storage.Storage

	// writerMu serializes every mutating operation: Set, Remove and
	// compaction. Get never takes it. staleBytes is only ever touched
	// while writerMu is held.
	writerMu   sync.Mutex
	staleBytes uint64

	closed atomic.Bool
}

// Engine is the key-value engine handle: set/get/remove plus the
// compaction that keeps the on-disk log bounded. All exported methods are
// safe to call concurrently from any number of cloned handles.
type Engine struct {
	c *core
}

// Config carries the dependencies an Engine needs at construction time.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}
