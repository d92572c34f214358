package timeline

import (
	"github.com/pellicle-io/pellicle/log"
	"github.com/pellicle-io/pellicle/types"
)

// PaddingFactor scales the largest particle dimension of the reference
// tick into the viewport margin. Doubling guarantees no agent is
// clipped at the frame edge even accounting for capsule half-length
// projections.
const PaddingFactor = 2.0

// ComputeViewport derives the fixed bounding box from the reference
// tick's records: the min/max of all positions, expanded by
// PaddingFactor times the largest diameter-or-length observed in that
// tick. The reference tick is conventionally the last tick, whose
// extents are typically the largest, so the camera never moves across
// a sequence.
//
// An empty reference tick falls back to types.DefaultViewport; this is
// a warning condition, not an error.
func ComputeViewport(records []types.AgentRecord, logger *log.Logger) types.Viewport {
	if logger == nil {
		logger = log.Nop()
	}

	if len(records) == 0 {
		logger.Warn("no records in reference tick, using default viewport", map[string]any{
			"viewport": types.DefaultViewport,
		})
		return types.DefaultViewport
	}

	box := types.Viewport{
		MinX: records[0].Pos.X, MaxX: records[0].Pos.X,
		MinY: records[0].Pos.Y, MaxY: records[0].Pos.Y,
	}
	maxDim := 0.0

	for _, rec := range records {
		if rec.Pos.X < box.MinX {
			box.MinX = rec.Pos.X
		}
		if rec.Pos.X > box.MaxX {
			box.MaxX = rec.Pos.X
		}
		if rec.Pos.Y < box.MinY {
			box.MinY = rec.Pos.Y
		}
		if rec.Pos.Y > box.MaxY {
			box.MaxY = rec.Pos.Y
		}
		if rec.Diameter > maxDim {
			maxDim = rec.Diameter
		}
		if rec.Length > maxDim {
			maxDim = rec.Length
		}
	}

	return box.Pad(PaddingFactor * maxDim)
}
