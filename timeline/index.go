// Package timeline groups ingested records by simulation tick and
// derives the fixed viewport shared by every rendered frame.
package timeline

import (
	"sort"

	"github.com/pellicle-io/pellicle/types"
)

// Index groups agent records by tick and exposes the canonical
// playback order. It is immutable after construction and safe to share
// across parallel frame builders without locking.
type Index struct {
	ticks   []int
	byTick  map[int][]types.AgentRecord
	records int
}

// NewIndex builds an index from ingested records. The tick sequence is
// deduplicated and sorted ascending regardless of input order. An
// empty input yields an empty index, not an error.
func NewIndex(records []types.AgentRecord) *Index {
	byTick := make(map[int][]types.AgentRecord)
	for _, rec := range records {
		byTick[rec.Tick] = append(byTick[rec.Tick], rec)
	}

	ticks := make([]int, 0, len(byTick))
	for tick := range byTick {
		ticks = append(ticks, tick)
	}
	sort.Ints(ticks)

	return &Index{
		ticks:   ticks,
		byTick:  byTick,
		records: len(records),
	}
}

// Ticks returns the strictly increasing, duplicate-free tick sequence.
// Callers must not mutate the returned slice.
func (ix *Index) Ticks() []int {
	return ix.ticks
}

// At returns all records observed at the given tick, in input order.
// Returns nil for ticks absent from the dataset.
func (ix *Index) At(tick int) []types.AgentRecord {
	return ix.byTick[tick]
}

// Len returns the number of distinct ticks.
func (ix *Index) Len() int {
	return len(ix.ticks)
}

// Records returns the total number of indexed records.
func (ix *Index) Records() int {
	return ix.records
}

// Empty reports whether the index holds no ticks. Callers must handle
// this explicitly, typically by falling back to the default viewport
// and producing no frames.
func (ix *Index) Empty() bool {
	return len(ix.ticks) == 0
}

// LastTick returns the highest tick and true, or 0 and false when the
// index is empty.
func (ix *Index) LastTick() (int, bool) {
	if len(ix.ticks) == 0 {
		return 0, false
	}
	return ix.ticks[len(ix.ticks)-1], true
}
