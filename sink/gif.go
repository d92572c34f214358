package sink

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"

	"github.com/pellicle-io/pellicle/iox"
	"github.com/pellicle-io/pellicle/log"
)

// GIFSink encodes the frame stream as a palettized animated GIF. It is
// the documented lower-fidelity fallback when no video encoder is
// available: 256 colors and centisecond frame timing.
type GIFSink struct {
	logger *log.Logger

	meta  StreamMeta
	anim  *gif.GIF
	delay int
}

// NewGIFSink creates a GIF sink.
func NewGIFSink(logger *log.Logger) *GIFSink {
	if logger == nil {
		logger = log.Nop()
	}
	return &GIFSink{logger: logger}
}

// Begin implements FrameSink.
func (s *GIFSink) Begin(ctx context.Context, meta StreamMeta) error {
	s.meta = meta
	s.anim = &gif.GIF{}

	// GIF delays are centiseconds; clamp to the 100fps floor. A
	// non-positive rate falls back to the default playback rate.
	fps := meta.FPS
	if fps < 1 {
		fps = DefaultFPS
	}
	s.delay = 100 / fps
	if s.delay < 1 {
		s.delay = 1
	}
	return nil
}

// WriteFrame implements FrameSink. Frames are palettized immediately
// so only the compact form is held until Commit.
func (s *GIFSink) WriteFrame(ctx context.Context, frame *RenderedFrame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bounds := frame.Image.Bounds()
	pal := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(pal, bounds, frame.Image, image.Point{})
	s.anim.Image = append(s.anim.Image, pal)
	s.anim.Delay = append(s.anim.Delay, s.delay)
	return nil
}

// Commit implements FrameSink.
func (s *GIFSink) Commit(ctx context.Context) (string, error) {
	if len(s.anim.Image) == 0 {
		return "", fmt.Errorf("no frames written")
	}

	path := filepath.Join(s.meta.OutDir, fmt.Sprintf("%s_simulation.gif", s.meta.Source))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer iox.DiscardClose(f)

	if err := gif.EncodeAll(f, s.anim); err != nil {
		return "", fmt.Errorf("failed to encode gif: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	s.logger.Info("gif written", map[string]any{
		"path":   path,
		"frames": len(s.anim.Image),
	})
	return path, nil
}

// Abort implements FrameSink.
func (s *GIFSink) Abort() error {
	s.anim = nil
	return nil
}

// Verify GIFSink implements FrameSink.
var _ FrameSink = (*GIFSink)(nil)
