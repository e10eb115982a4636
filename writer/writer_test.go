package writer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fxarb/arbiter/arbtypes"
	"github.com/fxarb/arbiter/csrgraph"
	"github.com/fxarb/arbiter/writer"
)

func TestWriter_RebuildsOnThresholdAndOnClose(t *testing.T) {
	require := require.New(t)

	graph := csrgraph.New(2)
	in := make(chan arbtypes.EdgeBatch, 4)
	w := writer.New(graph, in, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	in <- arbtypes.EdgeBatch{{From: 0, To: 1, Rate: 0.92}}
	in <- arbtypes.EdgeBatch{{From: 1, To: 2, Rate: 150.5}}
	require.Eventually(func() bool {
		return graph.Snapshot().NodeCount == 3
	}, time.Second, time.Millisecond, "rebuild should have run once the threshold of 2 staged edges was hit")

	in <- arbtypes.EdgeBatch{{From: 2, To: 0, Rate: 0.0074}}
	close(in)

	err := <-done
	require.NoError(err)

	arr := graph.Snapshot()
	require.Equal(3, arr.NodeCount)
	start, end := arr.OutEdges(2)
	require.Equal(1, end-start)
}

func TestWriter_DropsInvalidBatchAndContinues(t *testing.T) {
	require := require.New(t)

	graph := csrgraph.New(10)
	in := make(chan arbtypes.EdgeBatch, 4)
	w := writer.New(graph, in, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	in <- arbtypes.EdgeBatch{{From: 0, To: 1, Rate: -5}}
	in <- arbtypes.EdgeBatch{{From: 0, To: 1, Rate: 2.0}}
	close(in)

	err := <-done
	require.NoError(err)

	arr := graph.Snapshot()
	require.Equal(2, arr.NodeCount)
}
