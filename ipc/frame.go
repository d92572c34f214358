// Package ipc implements the length-prefixed msgpack framing spoken
// between the renderer and an external encoder process.
package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Frame size constants.
const (
	// MaxFrameSize is the maximum frame size (64 MiB), including
	// length prefix. A raw 1920x1080 RGBA frame is ~8 MiB; the cap
	// leaves ample headroom without letting a corrupt prefix allocate
	// unbounded memory.
	MaxFrameSize = 64 * 1024 * 1024
	// MaxPayloadSize is the maximum payload size (MaxFrameSize - 4 bytes).
	MaxPayloadSize = MaxFrameSize - LengthPrefixSize
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
)

// Message type discriminants.
const (
	StreamBeginType = "stream_begin"
	FrameDataType   = "frame"
	StreamEndType   = "stream_end"
	EncoderAckType  = "encoder_ack"
)

// StreamBegin opens an encoding session. The encoder allocates its
// output from these parameters before any frame arrives.
type StreamBegin struct {
	Type    string `msgpack:"type"`
	RunID   string `msgpack:"run_id"`
	Source  string `msgpack:"source"`
	Width   int    `msgpack:"width"`
	Height  int    `msgpack:"height"`
	FPS     int    `msgpack:"fps"`
	Bitrate int    `msgpack:"bitrate"`
	Codec   string `msgpack:"codec"`
	Output  string `msgpack:"output"`
}

// FrameData carries one rasterized frame as raw RGBA pixels in row
// order, stride = width*4.
type FrameData struct {
	Type    string `msgpack:"type"`
	Index   int    `msgpack:"index"`
	Tick    int    `msgpack:"tick"`
	Caption string `msgpack:"caption"`
	Pixels  []byte `msgpack:"pixels"`
}

// StreamEnd closes the session. FrameCount lets the encoder verify it
// saw every frame.
type StreamEnd struct {
	Type       string `msgpack:"type"`
	RunID      string `msgpack:"run_id"`
	FrameCount int    `msgpack:"frame_count"`
}

// EncoderAck is the encoder's terminal reply after StreamEnd.
type EncoderAck struct {
	Type   string `msgpack:"type"`
	RunID  string `msgpack:"run_id"`
	OK     bool   `msgpack:"ok"`
	Error  string `msgpack:"error,omitempty"`
	Output string `msgpack:"output,omitempty"`
}

// FrameErrorKind classifies framing errors.
type FrameErrorKind int

const (
	// FrameErrorPartial indicates a truncated or incomplete frame.
	FrameErrorPartial FrameErrorKind = iota
	// FrameErrorTooLarge indicates a frame exceeding MaxFrameSize.
	FrameErrorTooLarge
	// FrameErrorDecode indicates a msgpack decoding error.
	FrameErrorDecode
)

// FrameError represents a framing error.
type FrameError struct {
	Kind FrameErrorKind
	Msg  string
	Err  error
}

func (e *FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether the session must terminate. Partial and
// oversized frames desynchronize the stream and cannot be skipped.
func (e *FrameError) IsFatal() bool {
	return e.Kind == FrameErrorPartial || e.Kind == FrameErrorTooLarge
}

// IsFatalFrameError reports whether err is a fatal frame error.
func IsFatalFrameError(err error) bool {
	var frameErr *FrameError
	if errors.As(err, &frameErr) {
		return frameErr.IsFatal()
	}
	return false
}

// FrameEncoder writes length-prefixed msgpack frames to a stream.
type FrameEncoder struct {
	writer io.Writer
}

// NewFrameEncoder creates a frame encoder over w.
func NewFrameEncoder(w io.Writer) *FrameEncoder {
	return &FrameEncoder{writer: w}
}

// WriteFrame msgpack-encodes v and writes it as one framed message.
func (e *FrameEncoder) WriteFrame(v any) error {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return &FrameError{
			Kind: FrameErrorDecode,
			Msg:  "failed to encode payload",
			Err:  err,
		}
	}
	if len(payload) > MaxPayloadSize {
		return &FrameError{
			Kind: FrameErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", len(payload), MaxPayloadSize),
		}
	}

	var lengthBuf [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(payload)))
	if _, err := e.writer.Write(lengthBuf[:]); err != nil {
		return &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to write length prefix",
			Err:  err,
		}
	}
	if _, err := e.writer.Write(payload); err != nil {
		return &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to write payload",
			Err:  err,
		}
	}
	return nil
}

// FrameDecoder decodes length-prefixed msgpack frames from a stream.
type FrameDecoder struct {
	reader io.Reader
}

// NewFrameDecoder creates a new frame decoder.
func NewFrameDecoder(r io.Reader) *FrameDecoder {
	return &FrameDecoder{reader: r}
}

// ReadFrame reads a single frame from the stream and returns the raw
// payload bytes (msgpack-encoded).
//
// Errors:
//   - io.EOF: stream ended cleanly (no more frames)
//   - *FrameError with Kind=FrameErrorPartial: incomplete frame (fatal)
//   - *FrameError with Kind=FrameErrorTooLarge: frame exceeds limit (fatal)
func (d *FrameDecoder) ReadFrame() ([]byte, error) {
	var lengthBuf [LengthPrefixSize]byte
	_, err := io.ReadFull(d.reader, lengthBuf[:])
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read length prefix",
			Err:  err,
		}
	}

	payloadSize := binary.BigEndian.Uint32(lengthBuf[:])
	if payloadSize > MaxPayloadSize {
		return nil, &FrameError{
			Kind: FrameErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", payloadSize, MaxPayloadSize),
		}
	}

	payload := make([]byte, payloadSize)
	_, err = io.ReadFull(d.reader, payload)
	if err != nil {
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read payload",
			Err:  err,
		}
	}

	return payload, nil
}

// frameTypeProbe peeks at the type field without a full decode.
type frameTypeProbe struct {
	Type string `msgpack:"type"`
}

// DecodeFrame decodes a payload into its concrete message struct,
// discriminated on the type field.
func DecodeFrame(payload []byte) (any, error) {
	var probe frameTypeProbe
	if err := msgpack.Unmarshal(payload, &probe); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorDecode,
			Msg:  "failed to decode frame type",
			Err:  err,
		}
	}

	switch probe.Type {
	case StreamBeginType:
		return decodeInto[StreamBegin](payload, "stream begin")
	case FrameDataType:
		return decodeInto[FrameData](payload, "frame data")
	case StreamEndType:
		return decodeInto[StreamEnd](payload, "stream end")
	case EncoderAckType:
		return decodeInto[EncoderAck](payload, "encoder ack")
	default:
		return nil, &FrameError{
			Kind: FrameErrorDecode,
			Msg:  fmt.Sprintf("unknown frame type %q", probe.Type),
		}
	}
}

func decodeInto[T any](payload []byte, what string) (*T, error) {
	var msg T
	if err := msgpack.Unmarshal(payload, &msg); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorDecode,
			Msg:  "failed to decode " + what,
			Err:  err,
		}
	}
	return &msg, nil
}
