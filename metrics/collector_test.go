package metrics

import (
	"sync"
	"testing"
)

func TestCollector_IncrementMethods(t *testing.T) {
	c := NewCollector("video", "encoder", "fs", "run-001", "part_003")

	c.IncFrameComposed()
	c.IncFrameComposed()
	c.IncFrameFailed()
	c.AddShapesRejected(3)
	c.IncFrameWritten()
	c.IncFrameWritten()
	c.IncFrameSkipped()
	c.IncWriteFailure()
	c.IncSinkFallback()
	c.IncSinkFallback()
	c.IncStoreWriteSuccess()
	c.IncStoreWriteFailure()

	s := c.Snapshot()

	if s.FramesComposed != 2 {
		t.Errorf("FramesComposed = %d, want 2", s.FramesComposed)
	}
	if s.FramesFailed != 1 {
		t.Errorf("FramesFailed = %d, want 1", s.FramesFailed)
	}
	if s.ShapesRejected != 3 {
		t.Errorf("ShapesRejected = %d, want 3", s.ShapesRejected)
	}
	if s.FramesWritten != 2 {
		t.Errorf("FramesWritten = %d, want 2", s.FramesWritten)
	}
	if s.FramesSkipped != 1 {
		t.Errorf("FramesSkipped = %d, want 1", s.FramesSkipped)
	}
	if s.WriteFailures != 1 {
		t.Errorf("WriteFailures = %d, want 1", s.WriteFailures)
	}
	if s.SinkFallbacks != 2 {
		t.Errorf("SinkFallbacks = %d, want 2", s.SinkFallbacks)
	}
	if s.StoreWriteSuccess != 1 {
		t.Errorf("StoreWriteSuccess = %d, want 1", s.StoreWriteSuccess)
	}
	if s.StoreWriteFailure != 1 {
		t.Errorf("StoreWriteFailure = %d, want 1", s.StoreWriteFailure)
	}
}

func TestCollector_Dimensions(t *testing.T) {
	c := NewCollector("final-state", "gif", "s3", "run-42", "part_007")
	s := c.Snapshot()

	if s.Mode != "final-state" {
		t.Errorf("Mode = %q, want %q", s.Mode, "final-state")
	}
	if s.Sink != "gif" {
		t.Errorf("Sink = %q, want %q", s.Sink, "gif")
	}
	if s.StorageBackend != "s3" {
		t.Errorf("StorageBackend = %q, want %q", s.StorageBackend, "s3")
	}
	if s.RunID != "run-42" {
		t.Errorf("RunID = %q, want %q", s.RunID, "run-42")
	}
	if s.Source != "part_007" {
		t.Errorf("Source = %q, want %q", s.Source, "part_007")
	}
}

func TestCollector_AbsorbIngestStats(t *testing.T) {
	c := NewCollector("video", "encoder", "fs", "run-001", "")

	droppedByKind := map[string]int64{
		"blank":     5,
		"coercion":  2,
		"separator": 1,
	}
	c.AbsorbIngestStats(100, 92, 8, 4, droppedByKind)

	s := c.Snapshot()

	if s.RowsRead != 100 {
		t.Errorf("RowsRead = %d, want 100", s.RowsRead)
	}
	if s.RowsKept != 92 {
		t.Errorf("RowsKept = %d, want 92", s.RowsKept)
	}
	if s.RowsDropped != 8 {
		t.Errorf("RowsDropped = %d, want 8", s.RowsDropped)
	}
	if s.Unclassified != 4 {
		t.Errorf("Unclassified = %d, want 4", s.Unclassified)
	}
	if len(s.DroppedByKind) != 3 {
		t.Errorf("DroppedByKind has %d entries, want 3", len(s.DroppedByKind))
	}
	if s.DroppedByKind["blank"] != 5 {
		t.Errorf("DroppedByKind[blank] = %d, want 5", s.DroppedByKind["blank"])
	}
}

func TestCollector_AbsorbIngestStats_MapIsolation(t *testing.T) {
	c := NewCollector("video", "encoder", "fs", "run-001", "")

	original := map[string]int64{"blank": 5}
	c.AbsorbIngestStats(10, 5, 5, 0, original)

	// Mutate the original map after absorption
	original["blank"] = 999
	original["new_kind"] = 100

	s := c.Snapshot()
	if s.DroppedByKind["blank"] != 5 {
		t.Errorf("DroppedByKind[blank] = %d, want 5 (should be isolated from caller mutation)", s.DroppedByKind["blank"])
	}
	if _, exists := s.DroppedByKind["new_kind"]; exists {
		t.Error("DroppedByKind should not contain new_kind added after absorption")
	}
}

func TestCollector_SnapshotImmutability(t *testing.T) {
	c := NewCollector("video", "encoder", "fs", "run-001", "")
	c.IncFrameComposed()
	c.IncFrameWritten()

	s1 := c.Snapshot()

	c.IncFrameComposed()
	c.IncFrameWritten()
	c.IncFrameWritten()

	if s1.FramesComposed != 1 {
		t.Errorf("s1.FramesComposed = %d, want 1 (snapshot should be frozen)", s1.FramesComposed)
	}
	if s1.FramesWritten != 1 {
		t.Errorf("s1.FramesWritten = %d, want 1 (snapshot should be frozen)", s1.FramesWritten)
	}

	s2 := c.Snapshot()
	if s2.FramesComposed != 2 {
		t.Errorf("s2.FramesComposed = %d, want 2", s2.FramesComposed)
	}
	if s2.FramesWritten != 3 {
		t.Errorf("s2.FramesWritten = %d, want 3", s2.FramesWritten)
	}
}

func TestCollector_SnapshotDroppedByKindIsolation(t *testing.T) {
	c := NewCollector("video", "encoder", "fs", "run-001", "")
	c.AbsorbIngestStats(10, 5, 5, 0, map[string]int64{"blank": 3})

	s := c.Snapshot()

	// Mutate the snapshot's map
	s.DroppedByKind["blank"] = 999
	s.DroppedByKind["injected"] = 1

	s2 := c.Snapshot()
	if s2.DroppedByKind["blank"] != 3 {
		t.Errorf("DroppedByKind[blank] = %d, want 3 (collector should be isolated from snapshot mutation)", s2.DroppedByKind["blank"])
	}
	if _, exists := s2.DroppedByKind["injected"]; exists {
		t.Error("DroppedByKind should not contain injected key from snapshot mutation")
	}
}

func TestCollector_NilReceiverSafety(t *testing.T) {
	var c *Collector

	// None of these should panic
	c.IncFrameComposed()
	c.IncFrameFailed()
	c.AddShapesRejected(1)
	c.IncFrameWritten()
	c.IncFrameSkipped()
	c.IncWriteFailure()
	c.IncSinkFallback()
	c.IncStoreWriteSuccess()
	c.IncStoreWriteFailure()
	c.AbsorbIngestStats(10, 8, 2, 0, map[string]int64{"blank": 2})

	s := c.Snapshot()
	if s.FramesComposed != 0 {
		t.Errorf("nil collector snapshot FramesComposed = %d, want 0", s.FramesComposed)
	}
	if s.DroppedByKind != nil {
		t.Errorf("nil collector snapshot DroppedByKind should be nil, got %v", s.DroppedByKind)
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	c := NewCollector("video", "encoder", "fs", "run-001", "")
	const goroutines = 10
	const iterations = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()
			for range iterations {
				c.IncFrameComposed()
				c.IncFrameWritten()
				c.IncStoreWriteSuccess()
			}
		}()
	}

	wg.Wait()

	s := c.Snapshot()
	want := int64(goroutines * iterations)

	if s.FramesComposed != want {
		t.Errorf("FramesComposed = %d, want %d", s.FramesComposed, want)
	}
	if s.FramesWritten != want {
		t.Errorf("FramesWritten = %d, want %d", s.FramesWritten, want)
	}
	if s.StoreWriteSuccess != want {
		t.Errorf("StoreWriteSuccess = %d, want %d", s.StoreWriteSuccess, want)
	}
}

func TestCollector_ZeroValueSnapshot(t *testing.T) {
	c := NewCollector("video", "encoder", "fs", "run-001", "")
	s := c.Snapshot()

	if s.RowsRead != 0 || s.RowsKept != 0 || s.RowsDropped != 0 {
		t.Error("fresh collector should have zero ingestion counters")
	}
	if s.FramesComposed != 0 || s.FramesFailed != 0 || s.ShapesRejected != 0 {
		t.Error("fresh collector should have zero composition counters")
	}
	if s.FramesWritten != 0 || s.FramesSkipped != 0 || s.WriteFailures != 0 || s.SinkFallbacks != 0 {
		t.Error("fresh collector should have zero sink counters")
	}
	if s.StoreWriteSuccess != 0 || s.StoreWriteFailure != 0 {
		t.Error("fresh collector should have zero store counters")
	}
	if len(s.DroppedByKind) != 0 {
		t.Errorf("fresh collector DroppedByKind should be empty, got %v", s.DroppedByKind)
	}
}
