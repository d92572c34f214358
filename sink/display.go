package sink

import (
	"context"

	"github.com/pellicle-io/pellicle/log"
)

// Viewer presents a finished frame sequence interactively. The TUI
// layer supplies the implementation so this package stays free of
// terminal dependencies.
type Viewer func(ctx context.Context, meta StreamMeta, frames []*RenderedFrame) error

// DisplaySink is the last fallback: it buffers the full sequence and
// hands it to an interactive viewer at Commit. It produces no artifact
// file.
type DisplaySink struct {
	viewer Viewer
	logger *log.Logger

	meta   StreamMeta
	frames []*RenderedFrame
}

// NewDisplaySink creates a display sink around a viewer.
func NewDisplaySink(viewer Viewer, logger *log.Logger) *DisplaySink {
	if logger == nil {
		logger = log.Nop()
	}
	return &DisplaySink{viewer: viewer, logger: logger}
}

// Begin implements FrameSink.
func (s *DisplaySink) Begin(ctx context.Context, meta StreamMeta) error {
	s.meta = meta
	return nil
}

// WriteFrame implements FrameSink.
func (s *DisplaySink) WriteFrame(ctx context.Context, frame *RenderedFrame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.frames = append(s.frames, frame)
	return nil
}

// Commit implements FrameSink. Blocks until the viewer exits.
func (s *DisplaySink) Commit(ctx context.Context) (string, error) {
	s.logger.Info("opening interactive viewer", map[string]any{
		"frames": len(s.frames),
	})
	if err := s.viewer(ctx, s.meta, s.frames); err != nil {
		return "", err
	}
	return "", nil
}

// Abort implements FrameSink.
func (s *DisplaySink) Abort() error {
	s.frames = nil
	return nil
}

// Verify DisplaySink implements FrameSink.
var _ FrameSink = (*DisplaySink)(nil)
