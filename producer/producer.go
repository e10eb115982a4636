package producer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxarb/arbiter/arbtypes"
)

// Producer drives a Streamer at a fixed interval, pushing each batch onto a
// bounded output channel. The channel's capacity is the sole backpressure
// point between the producer and the writer: Run blocks on send when the
// channel is full rather than dropping or buffering further.
type Producer struct {
	streamer Streamer
	interval time.Duration
	out      chan<- arbtypes.EdgeBatch
}

// New builds a Producer over streamer, emitting a batch every interval onto
// out. interval must be positive.
func New(streamer Streamer, interval time.Duration, out chan<- arbtypes.EdgeBatch) *Producer {
	return &Producer{streamer: streamer, interval: interval, out: out}
}

// Run ticks the streamer until it signals ErrStreamDone (closing out and
// returning nil) or ctx is cancelled (returning ctx.Err()). Any other error
// from the streamer aborts the run and propagates to the caller.
func (p *Producer) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		batch, err := p.streamer.NextBatch()
		if errors.Is(err, ErrStreamDone) {
			close(p.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("producer: NextBatch: %w", err)
		}
		if len(batch) == 0 {
			continue
		}

		select {
		case p.out <- batch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
