// Package index provides the in-memory key -> Position map the engine
// consults on every read and updates on every write. It is deliberately the
// smallest piece of the storage stack: no values, no segment I/O, just the
// mapping a reader needs to turn a key into a byte range to fetch.
package index

import (
	"slices"

	"github.com/iamNilotpal/ignite/pkg/errors"
)

// New builds an empty Index ready for concurrent use.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{log: config.Logger, m: make(map[string]Position, 1024)}, nil
}

// Get returns the Position currently recorded for key. It never blocks on a
// concurrent Insert or Remove beyond the cost of acquiring the read lock.
func (idx *Index) Get(key string) (Position, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	pos, ok := idx.m[key]
	return pos, ok
}

// Insert records pos for key, overwriting whatever was there before, and
// returns the prior Position if one existed. Callers on the write path must
// already hold the engine's writer lock; this method only protects against
// concurrent Get calls.
func (idx *Index) Insert(key string, pos Position) (Position, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	prev, had := idx.m[key]
	idx.m[key] = pos
	return prev, had
}

// Remove deletes key from the index and returns the Position it held, if
// any.
func (idx *Index) Remove(key string) (Position, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	prev, had := idx.m[key]
	if had {
		delete(idx.m, key)
	}
	return prev, had
}

// Len reports the number of live keys.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.m)
}

// Entry pairs a key with its Position, returned by Snapshot for ordered
// iteration during compaction.
type Entry struct {
	Key string
	Pos Position
}

// Snapshot returns every live (key, Position) pair in ascending key order.
// It is used only by compaction, which already holds the engine's writer
// lock, so the ordering is stable for the duration of the copy loop.
func (idx *Index) Snapshot() []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	keys := make([]string, 0, len(idx.m))
	for k := range idx.m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = Entry{Key: k, Pos: idx.m[k]}
	}
	return entries
}

// Update rewrites the Position stored for key in place, used by compaction
// once a live entry has been copied into the new segment. It is a no-op if
// the key is no longer present, so it never re-creates a removed key.
func (idx *Index) Update(key string, pos Position) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.m[key]; ok {
		idx.m[key] = pos
	}
}
