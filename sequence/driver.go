// Package sequence drives full render runs: frames are built in
// parallel, reordered, and streamed to a sink in ascending tick order.
package sequence

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pellicle-io/pellicle/log"
	"github.com/pellicle-io/pellicle/metrics"
	"github.com/pellicle-io/pellicle/raster"
	"github.com/pellicle-io/pellicle/scene"
	"github.com/pellicle-io/pellicle/sink"
)

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// Config tunes a render run.
type Config struct {
	// Workers is the number of concurrent frame builders. Zero or
	// negative means 1.
	Workers int
}

// Result summarizes a completed run.
type Result struct {
	// RunID is the run identifier carried in the stream metadata.
	RunID string
	// Artifact is the path of the produced file, empty for display
	// sinks.
	Artifact string
	// FramesWritten is the number of frames the sink accepted.
	FramesWritten int
	// TicksSkipped is the number of ticks dropped after composition
	// or rendering failed.
	TicksSkipped int
}

// Driver owns the compose-render-write pipeline for one dataset.
type Driver struct {
	composer  *scene.Composer
	renderer  *raster.Renderer
	logger    *log.Logger
	collector *metrics.Collector
	config    Config
}

// NewDriver assembles a driver.
func NewDriver(composer *scene.Composer, renderer *raster.Renderer, collector *metrics.Collector, logger *log.Logger, config Config) *Driver {
	if logger == nil {
		logger = log.Nop()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Driver{
		composer:  composer,
		renderer:  renderer,
		logger:    logger,
		collector: collector,
		config:    config,
	}
}

// RenderVideo builds one frame per tick and streams them to the sink.
//
// Frame building fans out across workers; writes stay sequential and
// in ascending tick order because encoders require ordered input. A
// tick whose frame fails to build is logged, counted, and skipped: a
// handful of bad ticks must not cost the rest of the video. Sink write
// failures and context cancellation abort the run.
func (d *Driver) RenderVideo(ctx context.Context, ticks []int, out sink.FrameSink, meta sink.StreamMeta) (*Result, error) {
	built := make([]*sink.RenderedFrame, len(ticks))

	sem := make(chan struct{}, d.config.Workers)
	var wg sync.WaitGroup
	for i, tick := range ticks {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			_ = out.Abort()
			return nil, ctx.Err()
		}

		wg.Add(1)
		go func(pos, tick int) {
			defer wg.Done()
			defer func() { <-sem }()

			frame, err := d.composer.Compose(tick)
			if err != nil {
				d.collector.IncFrameFailed()
				d.logger.Warn("skipping tick", map[string]any{
					"tick":  tick,
					"error": err.Error(),
				})
				return
			}
			d.collector.IncFrameComposed()
			built[pos] = &sink.RenderedFrame{
				Tick:    tick,
				Caption: frame.Caption,
				Image:   d.renderer.Render(frame),
			}
		}(i, tick)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		_ = out.Abort()
		return nil, err
	}

	result := &Result{RunID: meta.RunID}

	// Sequential write pass: failed positions collapse out so the
	// stream indices stay dense.
	index := 0
	for _, frame := range built {
		if frame == nil {
			result.TicksSkipped++
			d.collector.IncFrameSkipped()
			continue
		}
		frame.Index = index
		if err := out.WriteFrame(ctx, frame); err != nil {
			_ = out.Abort()
			return nil, fmt.Errorf("failed to write frame %d (tick %d): %w", index, frame.Tick, err)
		}
		index++
	}
	result.FramesWritten = index

	if index == 0 {
		_ = out.Abort()
		return nil, fmt.Errorf("no frames could be built from %d ticks", len(ticks))
	}

	artifact, err := out.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to commit sink: %w", err)
	}
	result.Artifact = artifact

	d.collector.AddShapesRejected(d.composer.Rejected())
	d.logger.Info("sequence complete", map[string]any{
		"run_id":   meta.RunID,
		"frames":   result.FramesWritten,
		"skipped":  result.TicksSkipped,
		"artifact": artifact,
	})
	return result, nil
}

// RenderFinal builds the final-state frame and writes it as a still.
// Unlike video mode there is nothing to fall back on, so any failure
// is fatal.
func (d *Driver) RenderFinal(ctx context.Context, tick int, out sink.StillSink, meta sink.StreamMeta) (*Result, error) {
	frame, err := d.composer.ComposeFinal(tick)
	if err != nil {
		d.collector.IncFrameFailed()
		return nil, fmt.Errorf("failed to compose final state at tick %d: %w", tick, err)
	}
	d.collector.IncFrameComposed()

	rendered := &sink.RenderedFrame{
		Tick:    tick,
		Caption: frame.Caption,
		Image:   d.renderer.Render(frame),
	}
	artifact, err := out.WriteStill(ctx, meta, rendered)
	if err != nil {
		d.collector.IncWriteFailure()
		return nil, fmt.Errorf("failed to write final state: %w", err)
	}
	d.collector.IncFrameWritten()

	d.collector.AddShapesRejected(d.composer.Rejected())
	d.logger.Info("final state written", map[string]any{
		"run_id":   meta.RunID,
		"tick":     tick,
		"artifact": artifact,
	})
	return &Result{RunID: meta.RunID, Artifact: artifact, FramesWritten: 1}, nil
}
