package index_test

import (
	"testing"

	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T) *index.Index {
	t.Helper()
	idx, err := index.New(&index.Config{Logger: logger.Noop()})
	require.NoError(t, err)
	return idx
}

func TestInsertGetRemove(t *testing.T) {
	idx := newIndex(t)

	_, had := idx.Insert("a", index.Position{SegmentID: 1, Offset: 0, Length: 10})
	require.False(t, had)

	pos, ok := idx.Get("a")
	require.True(t, ok)
	require.Equal(t, uint64(1), pos.SegmentID)

	_, ok = idx.Get("missing")
	require.False(t, ok)

	prev, had := idx.Remove("a")
	require.True(t, had)
	require.Equal(t, int64(10), prev.Length)

	_, ok = idx.Get("a")
	require.False(t, ok)
}

func TestInsertOverwriteReturnsPriorPosition(t *testing.T) {
	idx := newIndex(t)

	idx.Insert("a", index.Position{SegmentID: 1, Offset: 0, Length: 5})
	prev, had := idx.Insert("a", index.Position{SegmentID: 1, Offset: 5, Length: 8})

	require.True(t, had)
	require.Equal(t, int64(0), prev.Offset)
	require.Equal(t, int64(5), prev.Length)
}

func TestSnapshotIsOrderedByKey(t *testing.T) {
	idx := newIndex(t)
	idx.Insert("c", index.Position{SegmentID: 1})
	idx.Insert("a", index.Position{SegmentID: 1})
	idx.Insert("b", index.Position{SegmentID: 1})

	snap := idx.Snapshot()
	require.Len(t, snap, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{snap[0].Key, snap[1].Key, snap[2].Key})
}

func TestUpdateIsNoOpAfterRemove(t *testing.T) {
	idx := newIndex(t)
	idx.Insert("a", index.Position{SegmentID: 1, Offset: 0, Length: 1})
	idx.Remove("a")

	idx.Update("a", index.Position{SegmentID: 2, Offset: 9, Length: 9})
	_, ok := idx.Get("a")
	require.False(t, ok)
}
