// Package searcher runs SPFA detection against periodic read-only snapshots
// of the shared graph and publishes any profitable cycle it finds.
package searcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fxarb/arbiter/arbtypes"
	"github.com/fxarb/arbiter/csrgraph"
	"github.com/fxarb/arbiter/spfa"
)

// Searcher ticks at a fixed interval, takes a snapshot of the shared graph,
// and runs a Detector over it.
type Searcher struct {
	graph    *csrgraph.GraphCSR
	detector spfa.Detector
	interval time.Duration
	hopCap   int
	out      chan<- *arbtypes.Cycle
	logger   *slog.Logger
}

// New builds a Searcher. hopCap <= 0 selects spfa.DefaultOptions's per-run
// |V| default.
func New(graph *csrgraph.GraphCSR, interval time.Duration, hopCap int, out chan<- *arbtypes.Cycle, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{graph: graph, interval: interval, hopCap: hopCap, out: out, logger: logger}
}

// Run ticks until ctx is cancelled, publishing each cycle found on out. A
// dangling-predecessor error (arbtypes.ErrGraphInconsistent), which can
// happen when a snapshot is taken mid-rebuild in a way that momentarily
// straddles two generations, is logged and retried on the next tick rather
// than treated as a pipeline failure.
func (s *Searcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := s.searchOnce(ctx); err != nil {
			return err
		}
	}
}

func (s *Searcher) searchOnce(ctx context.Context) error {
	snapshot := s.graph.Snapshot()
	opts := spfa.DefaultOptions(snapshot.NodeCount)
	if s.hopCap > 0 {
		opts.HopCap = s.hopCap
	}

	cycle, found, err := s.detector.FindProfitableCycle(snapshot, opts)
	if err != nil {
		if errors.Is(err, arbtypes.ErrGraphInconsistent) {
			s.logger.Warn("search hit an inconsistent snapshot, retrying next tick", "error", err)
			return nil
		}
		return err
	}
	if !found {
		return nil
	}

	cycle.FoundAt = now()
	cycle.SnapshotNodeCount = snapshot.NodeCount

	select {
	case s.out <- cycle:
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// now is a function value so tests can stub deterministic timestamps.
var now = time.Now
