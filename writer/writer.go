// Package writer drives the graph's two-phase mutation discipline from the
// consuming side of the producer channel: it stages every incoming batch and,
// once the staging buffer crosses the configured threshold, runs the
// unlocked rebuild and commits the result.
package writer

import (
	"context"
	"log/slog"

	"github.com/fxarb/arbiter/arbtypes"
	"github.com/fxarb/arbiter/csrgraph"
)

// Writer is the single goroutine role permitted to call Stage and the
// rebuild phases (ExtractForRebuild, BuildArrays, Commit) on a shared
// csrgraph.GraphCSR. Serializing mutation through one goroutine is what lets
// Stage and Commit assume nothing else appends to pending between
// ExtractForRebuild and Commit.
type Writer struct {
	graph  *csrgraph.GraphCSR
	in     <-chan arbtypes.EdgeBatch
	logger *slog.Logger
}

// New builds a Writer that drains in and mutates graph.
func New(graph *csrgraph.GraphCSR, in <-chan arbtypes.EdgeBatch, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{graph: graph, in: in, logger: logger}
}

// Run drains in until it closes or ctx is cancelled, staging each batch and
// rebuilding whenever Stage reports the threshold was crossed. On either
// exit path it performs one final rebuild so no staged edges are lost: a
// closed producer channel means no more batches are coming, but whatever is
// still in pending at that point must still become visible to searchers.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.finalRebuild()
			return ctx.Err()

		case batch, ok := <-w.in:
			if !ok {
				w.finalRebuild()
				return nil
			}

			thresholdReached, err := w.graph.Stage(batch)
			if err != nil {
				w.logger.Warn("dropping invalid batch", "error", err, "batch_size", len(batch))
				continue
			}
			if thresholdReached {
				w.rebuild()
				w.logger.Debug("rebuilt graph", "node_count", w.graph.NodeCount())
			}
		}
	}
}

func (w *Writer) finalRebuild() {
	if w.graph.PendingLen() > 0 {
		w.rebuild()
		w.logger.Debug("final rebuild on shutdown", "node_count", w.graph.NodeCount())
	}
}

// rebuild runs the three phases explicitly rather than calling
// csrgraph.GraphCSR.Rebuild, so the write-lock hold times (ExtractForRebuild,
// Commit) stay visible in the Writer's own control flow, with the unlocked
// sort/dedup/build work (BuildArrays) plainly sitting between them.
func (w *Writer) rebuild() {
	combined := w.graph.ExtractForRebuild()
	arrays := csrgraph.BuildArrays(combined, w.graph.NodeCount())
	w.graph.Commit(arrays)
}
