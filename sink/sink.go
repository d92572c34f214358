// Package sink defines where rendered frames go: a video encoder, an
// animated GIF, an interactive display, or a PNG still.
//
// A FrameSink consumes an ordered frame stream between Begin and
// Commit. Sinks are single-use: after Commit or Abort the sink must
// not be reused.
package sink

import (
	"context"
	"errors"
	"image"
)

// Sentinel errors for sink selection and writes.
var (
	// ErrEncoderUnavailable indicates the external encoder binary is
	// missing or refused to start. Callers fall back to the next sink
	// in the chain.
	ErrEncoderUnavailable = errors.New("video encoder unavailable")

	// ErrSinkExhausted indicates every sink in a chain failed to open.
	ErrSinkExhausted = errors.New("all sinks unavailable")
)

// DefaultFPS is the playback rate used when a session carries no
// usable frame rate.
const DefaultFPS = 60

// StreamMeta describes one encoding session.
type StreamMeta struct {
	// RunID uniquely identifies the render run.
	RunID string
	// Source is the dataset identifier, embedded in output filenames.
	Source string
	// Width and Height are the frame resolution in pixels.
	Width  int
	Height int
	// FPS is the playback frame rate.
	FPS int
	// Bitrate is the target video bitrate in kbit/s.
	Bitrate int
	// Codec names the video codec for encoder sinks.
	Codec string
	// OutDir is the directory artifacts are written into.
	OutDir string
}

// RenderedFrame is one rasterized frame ready for a sink.
type RenderedFrame struct {
	// Index is the dense position in the output stream, starting at 0.
	Index int
	// Tick is the simulation tick the frame was composed from.
	Tick int
	// Caption is the frame's display caption.
	Caption string
	// Image holds the rasterized pixels.
	Image *image.RGBA
}

// FrameSink consumes an ordered stream of rendered frames and produces
// one artifact.
type FrameSink interface {
	// Begin opens the session. A failure here means the sink cannot
	// serve this run at all; the caller may fall back.
	Begin(ctx context.Context, meta StreamMeta) error

	// WriteFrame appends one frame. Frames arrive in ascending index
	// order.
	WriteFrame(ctx context.Context, frame *RenderedFrame) error

	// Commit finalizes the artifact and returns its path. An empty
	// path means the sink produced no file (display sinks).
	Commit(ctx context.Context) (string, error)

	// Abort discards the session and releases resources.
	Abort() error
}

// StillSink writes a single frame as a standalone image artifact.
type StillSink interface {
	// WriteStill writes one frame and returns the artifact path.
	WriteStill(ctx context.Context, meta StreamMeta, frame *RenderedFrame) (string, error)
}

// StubSink is a test double recording every call in order.
type StubSink struct {
	Meta      StreamMeta
	Frames    []*RenderedFrame
	Began     bool
	Committed bool
	Aborted   bool

	// BeginErr, WriteErr and CommitErr inject failures.
	BeginErr  error
	WriteErr  error
	CommitErr error
	// Path is returned from Commit.
	Path string
}

// NewStubSink creates an empty stub.
func NewStubSink() *StubSink {
	return &StubSink{}
}

// Begin implements FrameSink.
func (s *StubSink) Begin(ctx context.Context, meta StreamMeta) error {
	if s.BeginErr != nil {
		return s.BeginErr
	}
	s.Began = true
	s.Meta = meta
	return nil
}

// WriteFrame implements FrameSink.
func (s *StubSink) WriteFrame(ctx context.Context, frame *RenderedFrame) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.Frames = append(s.Frames, frame)
	return nil
}

// Commit implements FrameSink.
func (s *StubSink) Commit(ctx context.Context) (string, error) {
	if s.CommitErr != nil {
		return "", s.CommitErr
	}
	s.Committed = true
	return s.Path, nil
}

// Abort implements FrameSink.
func (s *StubSink) Abort() error {
	s.Aborted = true
	return nil
}

// Verify StubSink implements FrameSink.
var _ FrameSink = (*StubSink)(nil)
