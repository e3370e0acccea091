// Package engine binds the codec, segment store and index together into
// the set/get/remove surface the server and any embedding caller use. It
// owns recovery on open and runs compaction inline, under its own writer
// lock, whenever accumulated stale bytes cross the configured threshold.
package engine

import (
	"io"

	stdErrors "errors"

	"github.com/iamNilotpal/ignite/internal/codec"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/internal/storage"
	"github.com/iamNilotpal/ignite/pkg/errors"
)

// ErrEngineClosed is returned when attempting to perform operations on a
// closed engine handle.
var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

// New opens (or creates) the engine's data directory, recovers the index
// from whatever segments already exist, and returns an Engine ready to
// serve Set/Get/Remove.
func New(config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	config.Logger.Infow("opening engine", "dataDir", config.Options.DataDir)

	idx, err := index.New(&index.Config{Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	store, err := storage.New(&storage.Config{Options: config.Options, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	e := &Engine{c: &core{options: config.Options, log: config.Logger, idx: idx, store: store}}

	if err := e.recover(); err != nil {
		_ = store.Close()
		return nil, err
	}

	config.Logger.Infow("engine ready", "liveKeys", idx.Len(), "activeSegmentID", store.ActiveID())
	return e, nil
}

// Clone returns a new handle sharing this Engine's underlying state. Every
// clone operates on the same index, the same segment store and the same
// writer lock; cloning costs one pointer copy.
func (e *Engine) Clone() *Engine {
	return &Engine{c: e.c}
}

// Set records value for key. It appends a Set entry to the active segment,
// updates the index, and -- if accumulated stale bytes now exceed the
// configured threshold -- runs compaction before returning.
func (e *Engine) Set(key, value string) error {
	if e.c.closed.Load() {
		return ErrEngineClosed
	}

	e.c.writerMu.Lock()
	defer e.c.writerMu.Unlock()

	offset, length, err := e.c.store.Append(codec.NewSetEntry(key, value))
	if err != nil {
		return err
	}

	activeID := e.c.store.ActiveID()
	prev, had := e.c.idx.Insert(key, index.Position{SegmentID: activeID, Offset: offset, Length: length})
	if had {
		e.c.staleBytes += uint64(prev.Length)
	}

	if e.c.staleBytes > e.c.options.StaleBytesThreshold {
		if err := e.compactLocked(); err != nil {
			e.c.log.Errorw("compaction failed", "error", err)
			return err
		}
	}
	return nil
}

// Get returns the value currently recorded for key. A missing key is not
// an error: it comes back as ("", false, nil).
func (e *Engine) Get(key string) (string, bool, error) {
	if e.c.closed.Load() {
		return "", false, ErrEngineClosed
	}

	pos, ok := e.c.idx.Get(key)
	if !ok {
		return "", false, nil
	}

	raw, err := e.c.store.ReadAt(pos.SegmentID, pos.Offset, pos.Length)
	for err != nil && pos.SegmentID < e.c.store.Watermark() {
		// Compaction moved the entry out of pos's segment after the lookup;
		// the index already holds its new Position.
		if pos, ok = e.c.idx.Get(key); !ok {
			return "", false, nil
		}
		raw, err = e.c.store.ReadAt(pos.SegmentID, pos.Offset, pos.Length)
	}
	if err != nil {
		return "", false, err
	}

	var entry codec.Entry
	if err := codec.DecodeRaw(raw, &entry); err != nil {
		return "", false, err
	}

	if entry.IsRemove() {
		return "", false, errors.NewEngineError(
			nil, errors.ErrorCodeLogInconsistent, "index points at a tombstone entry",
		).WithKey(key).WithOperation("Get")
	}
	return entry.Value, true, nil
}

// Remove deletes key. It checks the index for a live entry before writing
// anything: a key with no live entry fails with ErrorCodeKeyNotFound and
// never touches the active segment at all. Only once presence is confirmed
// does Remove append the tombstone and drop the key from the index.
func (e *Engine) Remove(key string) error {
	if e.c.closed.Load() {
		return ErrEngineClosed
	}

	e.c.writerMu.Lock()
	defer e.c.writerMu.Unlock()

	if _, ok := e.c.idx.Get(key); !ok {
		return errors.NewEngineError(nil, errors.ErrorCodeKeyNotFound, "key not found").
			WithKey(key).WithOperation("Remove")
	}

	if _, _, err := e.c.store.Append(codec.NewRemoveEntry(key)); err != nil {
		return err
	}

	prev, _ := e.c.idx.Remove(key)
	e.c.staleBytes += uint64(prev.Length)
	if e.c.staleBytes > e.c.options.StaleBytesThreshold {
		if err := e.compactLocked(); err != nil {
			e.c.log.Errorw("compaction failed", "error", err)
			return err
		}
	}
	return nil
}

// Close releases the engine's segment store. In-memory state is dropped;
// the log files on disk remain the source of truth for the next open.
func (e *Engine) Close() error {
	if !e.c.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	return e.c.store.Close()
}

// recover replays every segment in ascending id order into the index. A
// Set overwrites (or inserts) the key's Position; a Remove deletes it.
// The result is equivalent to having applied the whole log in append
// order, which is exactly what happened the first time around.
func (e *Engine) recover() error {
	ids, err := e.c.store.SegmentIDs()
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := e.recoverSegment(id); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) recoverSegment(id uint64) error {
	r, err := e.c.store.SegmentReader(id)
	if err != nil {
		return err
	}
	defer r.Close()

	reader := codec.NewReader(r)
	var offset int64

	for {
		payload, n, err := codec.ReadFrame(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			if ce, ok := errors.AsCodecError(err); ok && ce.Truncated() {
				e.c.log.Warnw(
					"segment ends in a torn write, stopping replay here",
					"segmentID", id, "offset", offset,
				)
				break
			}
			return err
		}

		var entry codec.Entry
		if err := codec.UnmarshalPayload(payload, &entry); err != nil {
			return err
		}

		if entry.IsSet() {
			e.c.idx.Insert(entry.Key, index.Position{SegmentID: id, Offset: offset, Length: int64(n)})
		} else {
			e.c.idx.Remove(entry.Key)
		}
		offset += int64(n)
	}

	return nil
}
