// Package producer models the two edge sources the pipeline supports — a CSV
// file replay and a synthetic simulator — behind a single capability:
// "produce the next batch or signal end". Producer is generic over that
// capability and owns the interval timing and channel send common to both.
package producer

import (
	"errors"

	"github.com/fxarb/arbiter/arbtypes"
)

// ErrStreamDone indicates a Streamer has exhausted its input (CsvStreamer
// only; SimStreamer never returns it — it runs until its context is
// cancelled).
var ErrStreamDone = errors.New("producer: stream exhausted")

// Streamer is implemented by any edge source a Producer can drive: a CSV
// file replay or a random simulator. NextBatch must be safe to call
// repeatedly; it returns one non-empty batch per call, or ErrStreamDone once
// exhausted.
type Streamer interface {
	NextBatch() (arbtypes.EdgeBatch, error)
}
