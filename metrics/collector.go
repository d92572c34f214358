// Package metrics provides per-run metrics collection.
//
// The Collector accumulates counters during a single render run. It is
// a leaf package with no internal dependencies. Ingestion counters are
// absorbed from the reader's final stats rather than recorded live,
// avoiding double-counting.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all run metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after
// creation.
type Snapshot struct {
	// Ingestion (absorbed from the reader's stats at run completion)
	RowsRead      int64
	RowsKept      int64
	RowsDropped   int64
	DroppedByKind map[string]int64
	Unclassified  int64

	// Composition
	FramesComposed int64
	FramesFailed   int64
	ShapesRejected int64

	// Sink
	FramesWritten int64
	FramesSkipped int64
	WriteFailures int64
	SinkFallbacks int64

	// Artifact store
	StoreWriteSuccess int64
	StoreWriteFailure int64

	// Dimensions (informational, set at construction)
	Mode           string
	Sink           string
	StorageBackend string
	RunID          string
	Source         string
}

// Collector accumulates metrics during a single run.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver
// safe so instrumentation can be left unwired in tests.
type Collector struct {
	mu sync.Mutex

	framesComposed int64
	framesFailed   int64
	shapesRejected int64

	framesWritten int64
	framesSkipped int64
	writeFailures int64
	sinkFallbacks int64

	storeWriteSuccess int64
	storeWriteFailure int64

	// Ingestion (set once via AbsorbIngestStats)
	rowsRead      int64
	rowsKept      int64
	rowsDropped   int64
	droppedByKind map[string]int64
	unclassified  int64

	// Dimensions
	mode           string
	sink           string
	storageBackend string
	runID          string
	source         string
}

// NewCollector creates a Collector with dimension labels. mode is
// "video" or "final-state"; sink and storageBackend name the selected
// backends; runID and source identify the run.
func NewCollector(mode, sink, storageBackend, runID, source string) *Collector {
	return &Collector{
		droppedByKind:  make(map[string]int64),
		mode:           mode,
		sink:           sink,
		storageBackend: storageBackend,
		runID:          runID,
		source:         source,
	}
}

// --- Composition ---

// IncFrameComposed records a successfully composed frame.
func (c *Collector) IncFrameComposed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesComposed++
	c.mu.Unlock()
}

// IncFrameFailed records a frame whose composition failed.
func (c *Collector) IncFrameFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesFailed++
	c.mu.Unlock()
}

// AddShapesRejected records n geometry rejections.
func (c *Collector) AddShapesRejected(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.shapesRejected += n
	c.mu.Unlock()
}

// --- Sink ---
// Sink counters are per-frame, not per-byte.

// IncFrameWritten records a frame accepted by the sink.
func (c *Collector) IncFrameWritten() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesWritten++
	c.mu.Unlock()
}

// IncFrameSkipped records a tick skipped in video mode.
func (c *Collector) IncFrameSkipped() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesSkipped++
	c.mu.Unlock()
}

// IncWriteFailure records a sink write failure.
func (c *Collector) IncWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.writeFailures++
	c.mu.Unlock()
}

// IncSinkFallback records a fallback from one sink to the next in the
// chain.
func (c *Collector) IncSinkFallback() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.sinkFallbacks++
	c.mu.Unlock()
}

// --- Artifact store ---

// IncStoreWriteSuccess records a successful artifact store write.
func (c *Collector) IncStoreWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storeWriteSuccess++
	c.mu.Unlock()
}

// IncStoreWriteFailure records a failed artifact store write.
func (c *Collector) IncStoreWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storeWriteFailure++
	c.mu.Unlock()
}

// --- Ingestion (absorbed from reader stats) ---

// AbsorbIngestStats copies ingestion counters into the collector.
// Called once after the dataset is read with the reader's final stats.
// The droppedByKind map keys are string-typed drop reasons to keep this
// package free of dependencies on the ingest package.
func (c *Collector) AbsorbIngestStats(read, kept, dropped, unclassified int64, droppedByKind map[string]int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.rowsRead = read
	c.rowsKept = kept
	c.rowsDropped = dropped
	c.unclassified = unclassified
	c.droppedByKind = make(map[string]int64, len(droppedByKind))
	for k, v := range droppedByKind {
		c.droppedByKind[k] = v
	}
	c.mu.Unlock()
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all metrics.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := make(map[string]int64, len(c.droppedByKind))
	for k, v := range c.droppedByKind {
		dropped[k] = v
	}

	return Snapshot{
		RowsRead:      c.rowsRead,
		RowsKept:      c.rowsKept,
		RowsDropped:   c.rowsDropped,
		DroppedByKind: dropped,
		Unclassified:  c.unclassified,

		FramesComposed: c.framesComposed,
		FramesFailed:   c.framesFailed,
		ShapesRejected: c.shapesRejected,

		FramesWritten: c.framesWritten,
		FramesSkipped: c.framesSkipped,
		WriteFailures: c.writeFailures,
		SinkFallbacks: c.sinkFallbacks,

		StoreWriteSuccess: c.storeWriteSuccess,
		StoreWriteFailure: c.storeWriteFailure,

		Mode:           c.mode,
		Sink:           c.sink,
		StorageBackend: c.storageBackend,
		RunID:          c.runID,
		Source:         c.source,
	}
}
