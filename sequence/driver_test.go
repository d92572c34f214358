package sequence

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pellicle-io/pellicle/metrics"
	"github.com/pellicle-io/pellicle/raster"
	"github.com/pellicle-io/pellicle/scene"
	"github.com/pellicle-io/pellicle/sink"
	"github.com/pellicle-io/pellicle/timeline"
	"github.com/pellicle-io/pellicle/types"
)

func cellAt(tick int, x, y float64) types.AgentRecord {
	return types.AgentRecord{
		Tick:        tick,
		Type:        types.AgentCell,
		Pos:         types.Vec2{X: x, Y: y},
		Diameter:    1,
		Length:      2,
		Orientation: types.Vec2{X: 1, Y: 0},
	}
}

func newTestDriver(records []types.AgentRecord, workers int) (*Driver, *timeline.Index, *metrics.Collector) {
	ix := timeline.NewIndex(records)
	last, _ := ix.LastTick()
	vp := timeline.ComputeViewport(ix.At(last), nil)
	composer := scene.NewComposer(ix, nil)
	renderer := raster.NewRenderer(32, 32, vp, raster.DefaultPalette)
	collector := metrics.NewCollector("video", "stub", "fs", "run-1", "src")
	d := NewDriver(composer, renderer, collector, nil, Config{Workers: workers})
	return d, ix, collector
}

func testMeta() sink.StreamMeta {
	return sink.StreamMeta{RunID: "run-1", Source: "src", Width: 32, Height: 32, FPS: 60}
}

func TestRenderVideo_OrderedDenseFrames(t *testing.T) {
	var records []types.AgentRecord
	for tick := range 10 {
		records = append(records, cellAt(tick, float64(tick), 0))
	}
	d, ix, _ := newTestDriver(records, 4)

	out := sink.NewStubSink()
	if err := out.Begin(context.Background(), testMeta()); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	result, err := d.RenderVideo(context.Background(), ix.Ticks(), out, testMeta())
	if err != nil {
		t.Fatalf("RenderVideo failed: %v", err)
	}

	if result.FramesWritten != 10 {
		t.Fatalf("FramesWritten = %d, want 10", result.FramesWritten)
	}
	if !out.Committed {
		t.Error("sink not committed")
	}
	// Parallel build must not disturb write order: indices dense and
	// ticks ascending.
	for i, f := range out.Frames {
		if f.Index != i {
			t.Errorf("frame %d has index %d", i, f.Index)
		}
		if i > 0 && f.Tick <= out.Frames[i-1].Tick {
			t.Errorf("ticks out of order at %d: %d after %d", i, f.Tick, out.Frames[i-1].Tick)
		}
	}
}

func TestRenderVideo_SkipsFailedTicks(t *testing.T) {
	d, _, collector := newTestDriver([]types.AgentRecord{
		cellAt(0, 0, 0),
		cellAt(2, 2, 0),
	}, 2)

	out := sink.NewStubSink()
	if err := out.Begin(context.Background(), testMeta()); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	// Tick 1 is not in the index: composition fails and the run
	// continues without it.
	result, err := d.RenderVideo(context.Background(), []int{0, 1, 2}, out, testMeta())
	if err != nil {
		t.Fatalf("RenderVideo failed: %v", err)
	}

	if result.FramesWritten != 2 {
		t.Errorf("FramesWritten = %d, want 2", result.FramesWritten)
	}
	if result.TicksSkipped != 1 {
		t.Errorf("TicksSkipped = %d, want 1", result.TicksSkipped)
	}
	if len(out.Frames) != 2 || out.Frames[0].Tick != 0 || out.Frames[1].Tick != 2 {
		t.Errorf("wrong surviving frames: %+v", out.Frames)
	}
	// Dense reindex across the gap.
	if out.Frames[1].Index != 1 {
		t.Errorf("frame after gap has index %d, want 1", out.Frames[1].Index)
	}

	snap := collector.Snapshot()
	if snap.FramesSkipped != 1 {
		t.Errorf("FramesSkipped = %d, want 1", snap.FramesSkipped)
	}
}

func TestRenderVideo_AllTicksFail(t *testing.T) {
	d, _, _ := newTestDriver([]types.AgentRecord{cellAt(0, 0, 0)}, 1)

	out := sink.NewStubSink()
	if err := out.Begin(context.Background(), testMeta()); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	_, err := d.RenderVideo(context.Background(), []int{5, 6}, out, testMeta())
	if err == nil {
		t.Fatal("expected error when no frame can be built")
	}
	if !out.Aborted {
		t.Error("sink not aborted")
	}
}

func TestRenderVideo_WriteFailureAborts(t *testing.T) {
	d, ix, _ := newTestDriver([]types.AgentRecord{cellAt(0, 0, 0)}, 1)

	out := sink.NewStubSink()
	out.WriteErr = errors.New("pipe broken")
	if err := out.Begin(context.Background(), testMeta()); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	_, err := d.RenderVideo(context.Background(), ix.Ticks(), out, testMeta())
	if err == nil || !strings.Contains(err.Error(), "pipe broken") {
		t.Fatalf("error = %v, want wrapped write failure", err)
	}
	if !out.Aborted {
		t.Error("sink not aborted after write failure")
	}
}

func TestRenderVideo_ContextCancelled(t *testing.T) {
	d, ix, _ := newTestDriver([]types.AgentRecord{cellAt(0, 0, 0), cellAt(1, 1, 0)}, 1)

	out := sink.NewStubSink()
	if err := out.Begin(context.Background(), testMeta()); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.RenderVideo(ctx, ix.Ticks(), out, testMeta())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if !out.Aborted {
		t.Error("sink not aborted on cancellation")
	}
}

type stubStill struct {
	frame *sink.RenderedFrame
	err   error
}

func (s *stubStill) WriteStill(ctx context.Context, meta sink.StreamMeta, frame *sink.RenderedFrame) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.frame = frame
	return "out.png", nil
}

func TestRenderFinal_WritesStill(t *testing.T) {
	d, ix, _ := newTestDriver([]types.AgentRecord{cellAt(0, 0, 0), cellAt(9, 3, 0)}, 1)

	still := &stubStill{}
	last, _ := ix.LastTick()
	result, err := d.RenderFinal(context.Background(), last, still, testMeta())
	if err != nil {
		t.Fatalf("RenderFinal failed: %v", err)
	}

	if result.Artifact != "out.png" {
		t.Errorf("Artifact = %q, want out.png", result.Artifact)
	}
	if still.frame == nil || still.frame.Tick != 9 {
		t.Errorf("still frame = %+v, want tick 9", still.frame)
	}
	if !strings.Contains(still.frame.Caption, "Final State") {
		t.Errorf("caption %q missing final-state marker", still.frame.Caption)
	}
}

func TestRenderFinal_FailureIsFatal(t *testing.T) {
	d, _, _ := newTestDriver([]types.AgentRecord{cellAt(0, 0, 0)}, 1)

	// Unknown tick: unlike video mode there is no skip path.
	_, err := d.RenderFinal(context.Background(), 99, &stubStill{}, testMeta())
	if !errors.Is(err, scene.ErrUnknownTick) {
		t.Fatalf("error = %v, want ErrUnknownTick", err)
	}

	still := &stubStill{err: errors.New("disk full")}
	_, err = d.RenderFinal(context.Background(), 0, still, testMeta())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("error = %v, want wrapped write failure", err)
	}
}

func TestNewRunID_Unique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Errorf("run ids not unique: %q, %q", a, b)
	}
}
