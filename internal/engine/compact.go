package engine

import (
	"github.com/iamNilotpal/ignite/internal/codec"
	"github.com/iamNilotpal/ignite/internal/index"
)

// compactLocked rewrites every live entry into a fresh segment and unlinks
// everything older. The caller must already hold writerMu.
//
// Two new segment ids are allocated: c (the compacted segment, holding
// only live entries) and n (a fresh empty segment that becomes active
// immediately after). Reserving two lets compaction leave the store in
// exactly the state a completely idle store would be in -- a populated,
// closed-off segment and an empty one ready for the next write -- rather
// than reopening c for further appends.
func (e *Engine) compactLocked() error {
	activeID := e.c.store.ActiveID()
	compactedID := activeID + 1
	nextActiveID := activeID + 2

	e.c.log.Infow("starting compaction", "staleBytes", e.c.staleBytes, "compactedSegmentID", compactedID)

	if err := e.c.store.CreateSegment(compactedID); err != nil {
		return err
	}
	if err := e.c.store.PromoteActive(compactedID); err != nil {
		return err
	}

	entries := e.c.idx.Snapshot()
	for _, ent := range entries {
		raw, err := e.c.store.ReadAt(ent.Pos.SegmentID, ent.Pos.Offset, ent.Pos.Length)
		if err != nil {
			return err
		}

		var decoded codec.Entry
		if err := codec.DecodeRaw(raw, &decoded); err != nil {
			return err
		}

		newOffset, newLength, err := e.c.store.Append(decoded)
		if err != nil {
			return err
		}
		e.c.idx.Update(ent.Key, index.Position{SegmentID: compactedID, Offset: newOffset, Length: newLength})
	}

	// The index now points only at c or later; every id strictly below c
	// can be unlinked safely. Update the watermark before removing files
	// so a reader that races this step either already has the new
	// Position or re-fetches from the index instead of touching a
	// vanished segment.
	e.c.store.SetWatermark(compactedID)

	oldIDs, err := e.c.store.SegmentIDs()
	if err != nil {
		return err
	}
	for _, id := range oldIDs {
		if id >= compactedID {
			continue
		}
		if err := e.c.store.RemoveSegment(id); err != nil {
			e.c.log.Warnw("failed to remove superseded segment", "segmentID", id, "error", err)
		}
	}

	if err := e.c.store.CreateSegment(nextActiveID); err != nil {
		return err
	}
	if err := e.c.store.PromoteActive(nextActiveID); err != nil {
		return err
	}

	e.c.staleBytes = 0
	e.c.log.Infow("compaction complete", "newActiveSegmentID", nextActiveID, "liveKeys", len(entries))
	return nil
}
