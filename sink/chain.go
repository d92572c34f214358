package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/pellicle-io/pellicle/log"
)

// Candidate is one named entry in a fallback chain. The constructor is
// deferred so a sink's resources are only acquired when its turn comes.
type Candidate struct {
	Name string
	New  func() FrameSink
}

// Chain tries candidates in order until one opens. Every fallback is
// logged with the failing sink's name. Only availability failures
// (ErrEncoderUnavailable) trigger a fallback: any other Begin error is
// a real fault and is returned as-is.
type Chain struct {
	candidates []Candidate
	logger     *log.Logger

	// Fallbacks counts how many candidates were skipped before one
	// opened.
	Fallbacks int
	// Selected is the name of the sink that opened.
	Selected string
}

// NewChain creates a fallback chain.
func NewChain(logger *log.Logger, candidates ...Candidate) *Chain {
	if logger == nil {
		logger = log.Nop()
	}
	return &Chain{candidates: candidates, logger: logger}
}

// Open begins a session on the first available candidate and returns
// the opened sink. ErrSinkExhausted is returned when every candidate
// is unavailable.
func (c *Chain) Open(ctx context.Context, meta StreamMeta) (FrameSink, error) {
	for i, cand := range c.candidates {
		s := cand.New()
		err := s.Begin(ctx, meta)
		if err == nil {
			c.Selected = cand.Name
			c.Fallbacks = i
			if i > 0 {
				c.logger.Warn("using fallback sink", map[string]any{
					"sink":      cand.Name,
					"fallbacks": i,
				})
			}
			return s, nil
		}
		if !errors.Is(err, ErrEncoderUnavailable) {
			return nil, fmt.Errorf("sink %s failed to open: %w", cand.Name, err)
		}
		c.logger.Warn("sink unavailable, trying next", map[string]any{
			"sink":  cand.Name,
			"error": err.Error(),
		})
	}
	return nil, ErrSinkExhausted
}
