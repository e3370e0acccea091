package storage

import (
	"bufio"
	"os"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/ignite/pkg/options"
	"go.uber.org/zap"
)

// Storage owns every segment file ("<id>.log") on disk: the single active
// writer and a cache of read handles shared by every concurrent reader. It
// has no notion of keys or the index -- it deals exclusively in segment
// ids, byte offsets and raw frame bytes; the engine is the layer that
// attaches meaning to what gets written and read back.
type Storage struct {
	dir string             // Directory holding every "<id>.log" segment file.
	log *zap.SugaredLogger // Structured logger for operational visibility.

	closed atomic.Bool

	// watermark is the lowest segment id still guaranteed to exist. A
	// reader that opened a handle for an id below the current watermark
	// must drop it and re-fetch the key's Position from the index: that
	// segment may have been unlinked by compaction.
	watermark atomic.Uint64

	// writeMu guards the active segment's file handle, buffered writer
	// and running byte offset. Only Append, ActiveID, PromoteActive and
	// Close take it; ReadAt never does, so reads never wait behind an
	// in-progress append.
	writeMu     sync.Mutex
	activeID    uint64
	activeFile  *os.File
	activeWrite *bufio.Writer
	writeOffset int64

	// readers caches one *os.File per segment id for ReadAt calls. Go's
	// os.File.ReadAt is pread-backed and safe for concurrent use by many
	// goroutines against the same handle without any extra locking, so a
	// single shared cache (rather than one handle per goroutine) gives
	// every caller the same non-blocking concurrent-read guarantee the
	// spec asks for.
	readers sync.Map // map[uint64]*os.File
}

// Config carries the dependencies Storage needs at construction time.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}
