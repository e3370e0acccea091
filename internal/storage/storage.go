// Package storage manages the numbered append-only segment files
// ("<id>.log") a running engine writes to and reads from. Exactly one
// segment -- the one with the largest id -- is ever open for writing; every
// segment, active or not, stays open for reading until compaction unlinks
// it.
//
// Segments are append-only and otherwise immutable: once a segment stops
// being active, nothing ever rewrites a byte inside it. That invariant is
// what lets readers hold onto a Position indefinitely and what lets
// compaction read each live entry back from the Position it was written at.
package storage

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/ignite/internal/codec"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/filesys"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/iamNilotpal/ignite/pkg/seginfo"
	"go.uber.org/zap"
)

// New discovers existing segment files under config.Options.DataDir,
// opens (or creates) the active segment, and returns a Storage ready for
// Append/ReadAt calls. It does not replay any entries -- that is the
// engine's job, since only the engine knows how to turn frame bytes back
// into index state.
func New(config *Config) (*Storage, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "storage configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	dir := config.Options.DataDir
	if config.Options.SegmentOptions != nil && config.Options.SegmentOptions.Directory != "" {
		dir = filepath.Join(dir, config.Options.SegmentOptions.Directory)
	}
	config.Logger.Infow("initializing segment store", "dataDir", dir)

	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, dir)
	}

	ids, err := seginfo.ListSegmentIDs(dir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to list segment files").WithPath(dir)
	}

	s := &Storage{dir: dir, log: config.Logger}

	activeID := uint64(1)
	if len(ids) > 0 {
		activeID = ids[len(ids)-1]
	}

	file, offset, err := s.openForAppend(activeID)
	if err != nil {
		return nil, err
	}

	s.activeID = activeID
	s.activeFile = file
	s.activeWrite = bufio.NewWriter(file)
	s.writeOffset = offset

	config.Logger.Infow("segment store ready", "activeSegmentID", activeID, "writeOffset", offset, "discovered", ids)
	return s, nil
}

// SegmentIDs returns every currently known segment id, ascending.
func (s *Storage) SegmentIDs() ([]uint64, error) {
	ids, err := seginfo.ListSegmentIDs(s.dir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to list segment files").WithPath(s.dir)
	}
	return ids, nil
}

// ActiveID returns the id of the segment currently accepting appends.
func (s *Storage) ActiveID() uint64 {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.activeID
}

// Append encodes entry and writes it to the active segment, flushing the
// buffered writer so a concurrent reader opening a fresh handle observes
// the bytes immediately. It returns the byte offset the frame started at
// and its total length -- exactly what the Index needs for a Position.
//
// Fsync is deliberately not called here: the spec's durability bar is "the
// most recent successful write is durable after its acknowledgement" to
// the degree the OS page cache provides, not crash-safety across a power
// loss.
func (s *Storage) Append(entry codec.Entry) (offset int64, length int64, err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	start := s.writeOffset
	n, err := codec.WriteFrame(s.activeWrite, entry)
	if err != nil {
		return 0, 0, err
	}
	if err := s.activeWrite.Flush(); err != nil {
		return 0, 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to flush active segment").
			WithSegmentID(int(s.activeID)).WithOffset(int(start))
	}

	s.writeOffset += int64(n)
	return start, int64(n), nil
}

// ReadAt returns the raw frame bytes for the entry at (segmentID, offset,
// length). It uses a cached, lazily-opened read handle; any number of
// callers may call ReadAt concurrently, including against the active
// segment while it is being appended to.
func (s *Storage) ReadAt(segmentID uint64, offset, length int64) ([]byte, error) {
	if segmentID < s.watermark.Load() {
		return nil, errors.NewStorageError(nil, errors.ErrorCodeSegmentCorrupted, "segment below compaction watermark").
			WithSegmentID(int(segmentID))
	}

	f, err := s.readerFor(segmentID)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, length)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodePayloadReadFailure, "failed to read entry").
			WithSegmentID(int(segmentID)).WithOffset(int(offset))
	}
	return buf, nil
}

// SegmentReader returns a sequential, from-the-start reader over segment
// id, used by the engine during recovery replay. The returned file is a
// fresh handle, independent of the cache ReadAt uses.
func (s *Storage) SegmentReader(segmentID uint64) (io.ReadCloser, error) {
	path := seginfo.Path(s.dir, segmentID)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, seginfo.GenerateName(segmentID))
	}
	return f, nil
}

// CreateSegment creates a brand-new, empty segment file with the given id.
// It fails if the file already exists with non-zero size, matching the
// spec's "create" contract: create is for fresh segments only, never for
// resuming one.
func (s *Storage) CreateSegment(id uint64) error {
	path := seginfo.Path(s.dir, id)
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		return errors.NewStorageError(nil, errors.ErrorCodeSegmentCorrupted, "segment already exists with data").
			WithSegmentID(int(id)).WithPath(path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}
	return f.Close()
}

// PromoteActive swaps the active writer to segment id, which must already
// exist (typically just created via CreateSegment). Callers hold the
// engine's writer lock for the duration of the swap.
func (s *Storage) PromoteActive(id uint64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.activeFile != nil {
		if err := s.activeFile.Close(); err != nil {
			s.log.Warnw("failed to close previous active segment", "segmentID", s.activeID, "error", err)
		}
	}

	file, offset, err := s.openForAppend(id)
	if err != nil {
		return err
	}

	s.activeID = id
	s.activeFile = file
	s.activeWrite = bufio.NewWriter(file)
	s.writeOffset = offset
	return nil
}

// RemoveSegment closes any cached reader for id and unlinks the segment
// file. It must never be called for the active segment.
func (s *Storage) RemoveSegment(id uint64) error {
	if v, ok := s.readers.LoadAndDelete(id); ok {
		if f, ok := v.(*os.File); ok {
			_ = f.Close()
		}
	}

	path := seginfo.Path(s.dir, id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to remove segment file").
			WithSegmentID(int(id)).WithPath(path)
	}
	return nil
}

// SetWatermark advances the compaction watermark to id. Reader handles for
// segments below the watermark are evicted from the cache so a stale
// handle can never be reused against a file that compaction is about to
// unlink.
func (s *Storage) SetWatermark(id uint64) {
	s.watermark.Store(id)
	s.readers.Range(func(key, value any) bool {
		segID := key.(uint64)
		if segID < id {
			s.readers.Delete(key)
			if f, ok := value.(*os.File); ok {
				_ = f.Close()
			}
		}
		return true
	})
}

// Watermark returns the lowest segment id still guaranteed to exist.
func (s *Storage) Watermark() uint64 {
	return s.watermark.Load()
}

// Close releases the active writer and every cached reader handle. Segment
// files on disk are left untouched: they remain the source of truth across
// restarts.
func (s *Storage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.writeMu.Lock()
	if s.activeWrite != nil {
		_ = s.activeWrite.Flush()
	}
	if s.activeFile != nil {
		_ = s.activeFile.Close()
	}
	s.writeMu.Unlock()

	s.readers.Range(func(key, value any) bool {
		if f, ok := value.(*os.File); ok {
			_ = f.Close()
		}
		s.readers.Delete(key)
		return true
	})
	return nil
}

// readerFor returns the cached read handle for segmentID, opening one on
// demand if not already cached.
func (s *Storage) readerFor(segmentID uint64) (*os.File, error) {
	if v, ok := s.readers.Load(segmentID); ok {
		return v.(*os.File), nil
	}

	path := seginfo.Path(s.dir, segmentID)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, seginfo.GenerateName(segmentID))
	}

	actual, loaded := s.readers.LoadOrStore(segmentID, f)
	if loaded {
		_ = f.Close()
		return actual.(*os.File), nil
	}
	return f, nil
}

// openForAppend opens id's segment file for appending and reports the
// current end-of-file offset, creating the file if it does not yet exist.
func (s *Storage) openForAppend(id uint64) (*os.File, int64, error) {
	path := seginfo.Path(s.dir, id)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, 0, errors.ClassifyFileOpenError(err, path, seginfo.GenerateName(id))
	}

	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		_ = f.Close()
		return nil, 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek to end of segment").
			WithSegmentID(int(id)).WithPath(path)
	}
	return f, offset, nil
}
