package sink

import (
	"context"

	"github.com/pellicle-io/pellicle/metrics"
)

// InstrumentedSink wraps a FrameSink and records write metrics. Each
// WriteFrame call increments the collector's written or failure
// counter.
type InstrumentedSink struct {
	inner     FrameSink
	collector *metrics.Collector
}

// NewInstrumentedSink wraps a sink with metrics instrumentation.
func NewInstrumentedSink(inner FrameSink, collector *metrics.Collector) *InstrumentedSink {
	return &InstrumentedSink{inner: inner, collector: collector}
}

// Begin delegates to the inner sink.
func (s *InstrumentedSink) Begin(ctx context.Context, meta StreamMeta) error {
	return s.inner.Begin(ctx, meta)
}

// WriteFrame delegates to the inner sink and records success or failure.
func (s *InstrumentedSink) WriteFrame(ctx context.Context, frame *RenderedFrame) error {
	err := s.inner.WriteFrame(ctx, frame)
	if err != nil {
		s.collector.IncWriteFailure()
	} else {
		s.collector.IncFrameWritten()
	}
	return err
}

// Commit delegates to the inner sink.
func (s *InstrumentedSink) Commit(ctx context.Context) (string, error) {
	return s.inner.Commit(ctx)
}

// Abort delegates to the inner sink.
func (s *InstrumentedSink) Abort() error {
	return s.inner.Abort()
}

// Verify InstrumentedSink implements FrameSink.
var _ FrameSink = (*InstrumentedSink)(nil)
