package sink

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pellicle-io/pellicle/iox"
	"github.com/pellicle-io/pellicle/log"
)

// PNGSink writes a single frame as a PNG still. The filename embeds
// the dataset identifier and the tick so repeated snapshots of the
// same run never collide.
type PNGSink struct {
	logger *log.Logger
}

// NewPNGSink creates a PNG still sink.
func NewPNGSink(logger *log.Logger) *PNGSink {
	if logger == nil {
		logger = log.Nop()
	}
	return &PNGSink{logger: logger}
}

// WriteStill implements StillSink.
func (s *PNGSink) WriteStill(ctx context.Context, meta StreamMeta, frame *RenderedFrame) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(meta.OutDir, fmt.Sprintf("%s_final_state_tick_%d.png", meta.Source, frame.Tick))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer iox.DiscardClose(f)

	if err := png.Encode(f, frame.Image); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	s.logger.Info("png written", map[string]any{
		"path": path,
		"tick": frame.Tick,
	})
	return path, nil
}

// Verify PNGSink implements StillSink.
var _ StillSink = (*PNGSink)(nil)
