package scene

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/pellicle-io/pellicle/log"
	"github.com/pellicle-io/pellicle/timeline"
	"github.com/pellicle-io/pellicle/types"
)

// ErrUnknownTick indicates a compose request for a tick absent from
// the index.
var ErrUnknownTick = errors.New("tick not present in dataset")

// Composer builds complete frames from the tick index. It is safe for
// concurrent use: the index is read-only and rejection counters are
// atomic.
type Composer struct {
	index  *timeline.Index
	logger *log.Logger

	rejected     atomic.Int64
	unclassified atomic.Int64
}

// NewComposer creates a composer over an immutable tick index.
func NewComposer(ix *timeline.Index, logger *log.Logger) *Composer {
	if logger == nil {
		logger = log.Nop()
	}
	return &Composer{index: ix, logger: logger}
}

// Compose builds the frame for one tick: records are partitioned by
// agent type, each becomes a shape, and EPS shapes are emitted before
// cell shapes so the biofilm matrix never occludes cell bodies.
//
// Geometry rejections skip the offending shape with a warning; only an
// unknown tick is an error.
func (c *Composer) Compose(tick int) (*types.Frame, error) {
	frame, err := c.compose(tick)
	if err != nil {
		return nil, err
	}
	frame.Caption = fmt.Sprintf("Biofilm Simulation - Tick %d", tick)
	return frame, nil
}

// ComposeFinal builds the final-state frame, whose caption embeds the
// per-type agent counts alongside the tick number.
func (c *Composer) ComposeFinal(tick int) (*types.Frame, error) {
	frame, err := c.compose(tick)
	if err != nil {
		return nil, err
	}
	frame.Caption = fmt.Sprintf("Biofilm Simulation - Final State (Tick %d) - %d cells, %d EPS",
		tick, frame.CellCount, frame.EPSCount)
	return frame, nil
}

func (c *Composer) compose(tick int) (*types.Frame, error) {
	records := c.index.At(tick)
	if records == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTick, tick)
	}

	var eps, cells []types.FrameShape
	frame := &types.Frame{Tick: tick}

	for _, rec := range records {
		if !rec.Type.Known() {
			c.unclassified.Add(1)
			continue
		}

		shape, err := BuildShape(rec)
		if err != nil {
			c.rejected.Add(1)
			c.logger.Warn("shape rejected", map[string]any{
				"tick":  tick,
				"pos_x": rec.Pos.X,
				"pos_y": rec.Pos.Y,
				"error": err.Error(),
			})
			continue
		}

		fs := types.FrameShape{Agent: rec.Type, Shape: shape}
		switch rec.Type {
		case types.AgentEPS:
			eps = append(eps, fs)
			frame.EPSCount++
		case types.AgentCell:
			cells = append(cells, fs)
			frame.CellCount++
		}
	}

	frame.Shapes = append(eps, cells...)
	return frame, nil
}

// Rejected returns the number of geometry rejections so far.
func (c *Composer) Rejected() int64 {
	return c.rejected.Load()
}

// Unclassified returns the number of records skipped as unclassified.
func (c *Composer) Unclassified() int64 {
	return c.unclassified.Load()
}
