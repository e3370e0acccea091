package storage_test

import (
	"testing"

	"github.com/iamNilotpal/ignite/internal/codec"
	"github.com/iamNilotpal/ignite/internal/storage"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *storage.Storage {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()

	s, err := storage.New(&storage.Config{Options: &opts, Logger: logger.Noop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEmptyDirStartsAtSegmentOne(t *testing.T) {
	s := newStorage(t)
	require.Equal(t, uint64(1), s.ActiveID())
}

func TestAppendThenReadAtRoundTrips(t *testing.T) {
	s := newStorage(t)

	offset, length, err := s.Append(codec.NewSetEntry("a", "1"))
	require.NoError(t, err)
	require.Zero(t, offset)
	require.Positive(t, length)

	raw, err := s.ReadAt(s.ActiveID(), offset, length)
	require.NoError(t, err)

	var entry codec.Entry
	require.NoError(t, codec.DecodeRaw(raw, &entry))
	require.Equal(t, "a", entry.Key)
	require.Equal(t, "1", entry.Value)
}

func TestCreateSegmentRejectsExistingNonEmptyFile(t *testing.T) {
	s := newStorage(t)
	_, _, err := s.Append(codec.NewSetEntry("a", "1"))
	require.NoError(t, err)

	err = s.CreateSegment(s.ActiveID())
	require.Error(t, err)
}

func TestPromoteActiveSwitchesWriteTarget(t *testing.T) {
	s := newStorage(t)
	require.NoError(t, s.CreateSegment(2))
	require.NoError(t, s.PromoteActive(2))
	require.Equal(t, uint64(2), s.ActiveID())

	offset, _, err := s.Append(codec.NewSetEntry("a", "1"))
	require.NoError(t, err)
	require.Zero(t, offset)
}

func TestRemoveSegmentUnlinksFile(t *testing.T) {
	s := newStorage(t)
	require.NoError(t, s.CreateSegment(2))

	ids, err := s.SegmentIDs()
	require.NoError(t, err)
	require.Contains(t, ids, uint64(2))

	require.NoError(t, s.RemoveSegment(2))

	ids, err = s.SegmentIDs()
	require.NoError(t, err)
	require.NotContains(t, ids, uint64(2))
}

func TestReadAtBelowWatermarkFails(t *testing.T) {
	s := newStorage(t)
	offset, length, err := s.Append(codec.NewSetEntry("a", "1"))
	require.NoError(t, err)

	s.SetWatermark(s.ActiveID() + 1)

	_, err = s.ReadAt(s.ActiveID(), offset, length)
	require.Error(t, err)
}

func TestReopenRediscoversActiveSegment(t *testing.T) {
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()

	s1, err := storage.New(&storage.Config{Options: &opts, Logger: logger.Noop()})
	require.NoError(t, err)
	require.NoError(t, s1.CreateSegment(2))
	require.NoError(t, s1.PromoteActive(2))
	require.NoError(t, s1.Close())

	s2, err := storage.New(&storage.Config{Options: &opts, Logger: logger.Noop()})
	require.NoError(t, err)
	defer s2.Close()
	require.Equal(t, uint64(2), s2.ActiveID())
}
