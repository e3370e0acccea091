package index

import (
	"sync"

	"go.uber.org/zap"
)

// Position locates a single encoded Entry inside a segment file: which
// segment it lives in, the byte offset its frame starts at, and the frame's
// total length. It is the only thing the Index ever stores for a key --
// values themselves always stay on disk.
type Position struct {
	// SegmentID identifies which segment file ("<id>.log") holds the entry.
	SegmentID uint64

	// Offset is the byte position within the segment where the entry's
	// frame begins.
	Offset int64

	// Length is the total byte length of the encoded frame at Offset,
	// header included. A reader uses it to bound a single ReadAt call.
	Length int64
}

// Index is the in-memory key -> Position map. It is the authoritative
// record of which keys are currently live: a key with no entry here has no
// value, regardless of what stale Set/Remove records still sit on disk.
//
// Reads take the map's read lock only, so any number of Get calls can run
// concurrently with each other, as can the ordered iteration compaction
// needs. Writes (Insert/Remove/Update) take the write lock; callers on the write
// path are expected to already be serialized by the engine's writer lock,
// so this mutex mostly exists to keep concurrent Get calls honest.
type Index struct {
	mu  sync.RWMutex
	m   map[string]Position
	log *zap.SugaredLogger
}

// Config carries the dependencies an Index needs at construction time.
type Config struct {
	Logger *zap.SugaredLogger
}
