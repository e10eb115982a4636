// Package pipeline wires the producer, writer and searcher roles together
// over bounded channels and runs them as a single errgroup, shutting every
// role down together on the first error or on external cancellation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fxarb/arbiter/arbconfig"
	"github.com/fxarb/arbiter/arbtypes"
	"github.com/fxarb/arbiter/csrgraph"
	"github.com/fxarb/arbiter/producer"
	"github.com/fxarb/arbiter/searcher"
	"github.com/fxarb/arbiter/writer"
)

// Result is returned once the pipeline has fully drained.
type Result struct {
	// Cycles accumulates every profitable cycle the searcher published
	// during the run, in discovery order.
	Cycles []*arbtypes.Cycle
}

// Run wires a Streamer through the producer/writer/searcher roles and blocks
// until ctx is cancelled or the streamer signals completion. Each role treats
// context cancellation as its cue to drain synchronously (the writer runs
// one final rebuild before returning) and exits on its own; Run's watchdog
// only guards against a role that never returns, giving the group up to
// cfg.ShutdownTimeout after ctx is done before reporting a timeout.
//
// It returns the first non-nil error from any role. A role that exits with
// context.Canceled or context.DeadlineExceeded counts as a clean exit and
// contributes no error, since the caller may be treating ctx's cancellation
// itself as the clean-shutdown trigger (e.g. a finite CSV run).
func Run(ctx context.Context, cfg *arbconfig.Config, streamer producer.Streamer, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	graph := csrgraph.New(cfg.Writer.RebuildLimit)
	edges := make(chan arbtypes.EdgeBatch, cfg.Producer.ChannelCapacity)
	cycles := make(chan *arbtypes.Cycle, cfg.Searcher.OutputChannelCapacity)

	p := producer.New(streamer, cfg.Producer.Interval, edges)
	w := writer.New(graph, edges, logger)
	s := searcher.New(graph, cfg.Searcher.Interval, cfg.Searcher.HopCap, cycles, logger)

	group, groupCtx := errgroup.WithContext(ctx)

	// searcherCtx is cancelled either by groupCtx (external cancellation or
	// a role error) or, for a finite source, once producer and writer have
	// both finished — there is no more data left for the searcher to find,
	// so a finite CSV run exits cleanly instead of running until killed.
	searcherCtx, cancelSearcher := context.WithCancel(groupCtx)
	defer cancelSearcher()

	var upstream sync.WaitGroup
	upstream.Add(2)
	go func() {
		upstream.Wait()
		cancelSearcher()
	}()

	group.Go(func() error {
		defer upstream.Done()
		err := p.Run(groupCtx)
		if err == context.Canceled || err == context.DeadlineExceeded {
			return nil
		}
		return err
	})
	group.Go(func() error {
		defer upstream.Done()
		err := w.Run(groupCtx)
		if err == context.Canceled || err == context.DeadlineExceeded {
			return nil
		}
		return err
	})
	group.Go(func() error {
		err := s.Run(searcherCtx)
		if err == context.Canceled || err == context.DeadlineExceeded {
			return nil
		}
		return err
	})

	result := &Result{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for cycle := range cycles {
			result.Cycles = append(result.Cycles, cycle)
			logger.Info("profitable cycle found",
				"path_length", len(cycle.Path),
				"log_rate_sum", cycle.LogRateSum,
				"product_rate", cycle.ProductRate(),
			)
		}
	}()

	waitDone := make(chan error, 1)
	go func() { waitDone <- group.Wait() }()

	var err error
	var drained bool
	select {
	case err = <-waitDone:
		drained = true
	case <-ctx.Done():
		select {
		case err = <-waitDone:
			drained = true
		case <-time.After(cfg.ShutdownTimeout):
			err = fmt.Errorf("pipeline: roles did not drain within shutdown_timeout: %w", arbtypes.ErrChannelClosed)
		}
	}

	if !drained {
		// A role is still running past its shutdown grace period; closing
		// cycles here would race its sends, and result is still being
		// written by the drain goroutine above, so it is unsafe to hand
		// back. Report the timeout and leave the stray goroutines to exit
		// on their own once groupCtx is done.
		return nil, err
	}

	close(cycles)
	<-done

	return result, err
}
