package sink

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/pellicle-io/pellicle/metrics"
)

func testFrame(index, tick int) *RenderedFrame {
	return &RenderedFrame{
		Index:   index,
		Tick:    tick,
		Caption: "test",
		Image:   image.NewRGBA(image.Rect(0, 0, 8, 8)),
	}
}

func testMeta(dir string) StreamMeta {
	return StreamMeta{
		RunID:  "run-1",
		Source: "simulation_output_part_001",
		Width:  8,
		Height: 8,
		FPS:    60,
		OutDir: dir,
	}
}

func TestStubSink_RecordsInOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStubSink()

	if err := s.Begin(ctx, testMeta(t.TempDir())); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	for i := range 3 {
		if err := s.WriteFrame(ctx, testFrame(i, i*10)); err != nil {
			t.Fatalf("WriteFrame(%d) failed: %v", i, err)
		}
	}
	if _, err := s.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if !s.Began || !s.Committed {
		t.Error("lifecycle flags not set")
	}
	if len(s.Frames) != 3 {
		t.Fatalf("recorded %d frames, want 3", len(s.Frames))
	}
	for i, f := range s.Frames {
		if f.Index != i {
			t.Errorf("frame %d has index %d", i, f.Index)
		}
	}
}

func TestGIFSink_WritesAnimation(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewGIFSink(nil)

	if err := s.Begin(ctx, testMeta(dir)); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	for i := range 3 {
		if err := s.WriteFrame(ctx, testFrame(i, i)); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}

	path, err := s.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if filepath.Ext(path) != ".gif" {
		t.Errorf("artifact %q is not a gif", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("artifact is empty")
	}
}

func TestGIFSink_ZeroFPS(t *testing.T) {
	ctx := context.Background()
	s := NewGIFSink(nil)

	meta := testMeta(t.TempDir())
	meta.FPS = 0
	if err := s.Begin(ctx, meta); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if s.delay < 1 {
		t.Errorf("delay = %d, want at least 1 centisecond", s.delay)
	}

	meta.FPS = -5
	s = NewGIFSink(nil)
	if err := s.Begin(ctx, meta); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if s.delay < 1 {
		t.Errorf("delay = %d for negative fps, want at least 1", s.delay)
	}
}

func TestGIFSink_CommitWithoutFrames(t *testing.T) {
	ctx := context.Background()
	s := NewGIFSink(nil)
	if err := s.Begin(ctx, testMeta(t.TempDir())); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := s.Commit(ctx); err == nil {
		t.Error("Commit with no frames should fail")
	}
}

func TestPNGSink_FilenameEmbedsSourceAndTick(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewPNGSink(nil)

	path, err := s.WriteStill(ctx, testMeta(dir), testFrame(0, 250))
	if err != nil {
		t.Fatalf("WriteStill failed: %v", err)
	}

	want := filepath.Join(dir, "simulation_output_part_001_final_state_tick_250.png")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
}

func TestEncoderSink_UnavailableBinary(t *testing.T) {
	ctx := context.Background()
	s := NewEncoderSink("pellicle-encode-does-not-exist", nil)

	err := s.Begin(ctx, testMeta(t.TempDir()))
	if !errors.Is(err, ErrEncoderUnavailable) {
		t.Errorf("error %v does not match ErrEncoderUnavailable", err)
	}
}

func TestDisplaySink_InvokesViewer(t *testing.T) {
	ctx := context.Background()
	var shown []*RenderedFrame
	viewer := func(ctx context.Context, meta StreamMeta, frames []*RenderedFrame) error {
		shown = frames
		return nil
	}

	s := NewDisplaySink(viewer, nil)
	if err := s.Begin(ctx, testMeta(t.TempDir())); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	for i := range 2 {
		if err := s.WriteFrame(ctx, testFrame(i, i)); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}

	path, err := s.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if path != "" {
		t.Errorf("display sink returned artifact path %q, want empty", path)
	}
	if len(shown) != 2 {
		t.Errorf("viewer received %d frames, want 2", len(shown))
	}
}

func TestChain_FallsBackOnUnavailable(t *testing.T) {
	ctx := context.Background()
	good := NewStubSink()

	chain := NewChain(nil,
		Candidate{Name: "encoder", New: func() FrameSink {
			return &StubSink{BeginErr: ErrEncoderUnavailable}
		}},
		Candidate{Name: "gif", New: func() FrameSink { return good }},
	)

	s, err := chain.Open(ctx, testMeta(t.TempDir()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s != good {
		t.Error("chain did not return the fallback sink")
	}
	if chain.Selected != "gif" {
		t.Errorf("Selected = %q, want gif", chain.Selected)
	}
	if chain.Fallbacks != 1 {
		t.Errorf("Fallbacks = %d, want 1", chain.Fallbacks)
	}
}

func TestChain_AllExhausted(t *testing.T) {
	ctx := context.Background()
	chain := NewChain(nil,
		Candidate{Name: "encoder", New: func() FrameSink {
			return &StubSink{BeginErr: ErrEncoderUnavailable}
		}},
	)

	_, err := chain.Open(ctx, testMeta(t.TempDir()))
	if !errors.Is(err, ErrSinkExhausted) {
		t.Errorf("error %v does not match ErrSinkExhausted", err)
	}
}

func TestChain_RealFaultStopsFallback(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")
	fellThrough := false

	chain := NewChain(nil,
		Candidate{Name: "encoder", New: func() FrameSink {
			return &StubSink{BeginErr: boom}
		}},
		Candidate{Name: "gif", New: func() FrameSink {
			fellThrough = true
			return NewStubSink()
		}},
	)

	_, err := chain.Open(ctx, testMeta(t.TempDir()))
	if !errors.Is(err, boom) {
		t.Errorf("error %v does not wrap the Begin fault", err)
	}
	if fellThrough {
		t.Error("chain fell back past a non-availability fault")
	}
}

func TestInstrumentedSink_CountsWrites(t *testing.T) {
	ctx := context.Background()
	collector := metrics.NewCollector("video", "stub", "fs", "run-1", "src")

	inner := NewStubSink()
	s := NewInstrumentedSink(inner, collector)
	if err := s.Begin(ctx, testMeta(t.TempDir())); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := s.WriteFrame(ctx, testFrame(0, 0)); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	inner.WriteErr = errors.New("write failed")
	if err := s.WriteFrame(ctx, testFrame(1, 1)); err == nil {
		t.Fatal("expected write failure")
	}

	snap := collector.Snapshot()
	if snap.FramesWritten != 1 {
		t.Errorf("FramesWritten = %d, want 1", snap.FramesWritten)
	}
	if snap.WriteFailures != 1 {
		t.Errorf("WriteFailures = %d, want 1", snap.WriteFailures)
	}
}
