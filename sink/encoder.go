package sink

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/pellicle-io/pellicle/ipc"
	"github.com/pellicle-io/pellicle/log"
)

// DefaultEncoderBinary is the encoder helper searched on PATH when no
// explicit binary is configured.
const DefaultEncoderBinary = "pellicle-encode"

// EncoderSink streams frames to an external encoder process over
// length-prefixed msgpack frames on its stdin and reads a single ack
// from its stdout after stream end.
type EncoderSink struct {
	binary string
	logger *log.Logger

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	enc    *ipc.FrameEncoder
	meta   StreamMeta
	count  int
	output string
}

// NewEncoderSink creates an encoder sink driving the given binary.
// An empty binary selects DefaultEncoderBinary.
func NewEncoderSink(binary string, logger *log.Logger) *EncoderSink {
	if binary == "" {
		binary = DefaultEncoderBinary
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &EncoderSink{binary: binary, logger: logger}
}

// Begin implements FrameSink. A missing or unstartable encoder binary
// is reported as ErrEncoderUnavailable so the caller can fall back.
func (s *EncoderSink) Begin(ctx context.Context, meta StreamMeta) error {
	path, err := exec.LookPath(s.binary)
	if err != nil {
		return fmt.Errorf("%w: %s not found on PATH", ErrEncoderUnavailable, s.binary)
	}

	s.output = filepath.Join(meta.OutDir, fmt.Sprintf("%s_simulation.mp4", meta.Source))

	cmd := exec.CommandContext(ctx, path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to create encoder stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create encoder stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}

	s.cmd = cmd
	s.stdin = stdin
	s.stdout = stdout
	s.enc = ipc.NewFrameEncoder(stdin)
	s.meta = meta

	s.logger.Info("encoder session started", map[string]any{
		"binary":  path,
		"output":  s.output,
		"fps":     meta.FPS,
		"bitrate": meta.Bitrate,
	})

	return s.enc.WriteFrame(ipc.StreamBegin{
		Type:    ipc.StreamBeginType,
		RunID:   meta.RunID,
		Source:  meta.Source,
		Width:   meta.Width,
		Height:  meta.Height,
		FPS:     meta.FPS,
		Bitrate: meta.Bitrate,
		Codec:   meta.Codec,
		Output:  s.output,
	})
}

// WriteFrame implements FrameSink.
func (s *EncoderSink) WriteFrame(ctx context.Context, frame *RenderedFrame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.enc.WriteFrame(ipc.FrameData{
		Type:    ipc.FrameDataType,
		Index:   frame.Index,
		Tick:    frame.Tick,
		Caption: frame.Caption,
		Pixels:  frame.Image.Pix,
	})
	if err != nil {
		return err
	}
	s.count++
	return nil
}

// Commit implements FrameSink. It closes the stream, waits for the
// encoder's ack, and reaps the process.
func (s *EncoderSink) Commit(ctx context.Context) (string, error) {
	err := s.enc.WriteFrame(ipc.StreamEnd{
		Type:       ipc.StreamEndType,
		RunID:      s.meta.RunID,
		FrameCount: s.count,
	})
	if err != nil {
		_ = s.Abort()
		return "", err
	}
	if err := s.stdin.Close(); err != nil {
		_ = s.Abort()
		return "", fmt.Errorf("failed to close encoder stdin: %w", err)
	}

	dec := ipc.NewFrameDecoder(s.stdout)
	payload, err := dec.ReadFrame()
	if err != nil {
		_ = s.cmd.Wait()
		return "", fmt.Errorf("failed to read encoder ack: %w", err)
	}
	msg, err := ipc.DecodeFrame(payload)
	if err != nil {
		_ = s.cmd.Wait()
		return "", err
	}
	ack, ok := msg.(*ipc.EncoderAck)
	if !ok {
		_ = s.cmd.Wait()
		return "", fmt.Errorf("unexpected encoder reply %T", msg)
	}

	if err := s.cmd.Wait(); err != nil {
		return "", fmt.Errorf("encoder process failed: %w", err)
	}
	if !ack.OK {
		return "", fmt.Errorf("encoder reported failure: %s", ack.Error)
	}
	if ack.Output != "" {
		return ack.Output, nil
	}
	return s.output, nil
}

// Abort implements FrameSink.
func (s *EncoderSink) Abort() error {
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	_ = s.stdin.Close()
	if err := s.cmd.Process.Kill(); err != nil {
		return err
	}
	_ = s.cmd.Wait()
	return nil
}

// Verify EncoderSink implements FrameSink.
var _ FrameSink = (*EncoderSink)(nil)
