package csrgraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fxarb/arbiter/arblog"
	"github.com/fxarb/arbiter/arbtypes"
	"github.com/fxarb/arbiter/csrgraph"
)

func edges(triples ...[3]float64) []arbtypes.Edge {
	out := make([]arbtypes.Edge, 0, len(triples))
	for _, t := range triples {
		out = append(out, arbtypes.Edge{
			From: arbtypes.NodeID(t[0]),
			To:   arbtypes.NodeID(t[1]),
			Rate: t[2],
		})
	}
	return out
}

func TestStage_EmptyBatchIsNoOp(t *testing.T) {
	require := require.New(t)

	g := csrgraph.New(8)
	before := g.Snapshot()

	thresholdReached, err := g.Stage(nil)
	require.NoError(err)
	require.False(thresholdReached)
	require.Equal(0, g.PendingLen())
	require.Same(before, g.Snapshot())
}

func TestStage_InvalidBatchLeavesPendingUnchanged(t *testing.T) {
	require := require.New(t)

	g := csrgraph.New(8)
	_, err := g.Stage(edges([3]float64{0, 1, 0.5}))
	require.NoError(err)
	require.Equal(1, g.PendingLen())

	_, err = g.Stage(arbtypes.EdgeBatch{
		{From: 1, To: 2, Rate: 0.5},
		{From: 2, To: 3, Rate: -1},
	})
	require.Error(err)
	require.Equal(1, g.PendingLen(), "a partially invalid batch must not be partially staged")
}

func TestRebuild_DeterministicAcrossBatchBoundaries(t *testing.T) {
	require := require.New(t)

	all := edges(
		[3]float64{0, 1, 0.92},
		[3]float64{1, 2, 150.5},
		[3]float64{2, 0, 0.0074},
	)

	g1 := csrgraph.New(1)
	_, err := g1.Stage(all)
	require.NoError(err)
	g1.Rebuild()

	g2 := csrgraph.New(1)
	for _, e := range all {
		_, err := g2.Stage(arbtypes.EdgeBatch{e})
		require.NoError(err)
	}
	g2.Rebuild()

	a1, a2 := g1.Snapshot(), g2.Snapshot()
	require.Equal(a1.NodePointers, a2.NodePointers)
	require.Equal(a1.EdgeTargets, a2.EdgeTargets)
	require.InDeltaSlice(a1.EdgeWeights, a2.EdgeWeights, 1e-12)
	require.Equal(a1.EdgeSourceByIndex, a2.EdgeSourceByIndex)
}

func TestRebuild_DuplicateResolutionKeepsLatestRate(t *testing.T) {
	require := require.New(t)

	g := csrgraph.New(1)
	_, err := g.Stage(edges([3]float64{0, 1, 0.9}))
	require.NoError(err)
	_, err = g.Stage(edges([3]float64{0, 1, 0.92}))
	require.NoError(err)
	g.Rebuild()

	arr := g.Snapshot()
	start, end := arr.OutEdges(0)
	require.Equal(1, end-start)
	require.InDelta(0.92, arblog.Rate(arr.EdgeWeights[start]), 1e-9)
}

func TestNewFromEdges_DynamicUpdateReplacesEdge(t *testing.T) {
	require := require.New(t)

	g, err := csrgraph.NewFromEdges(edges(
		[3]float64{0, 1, 0.5},
		[3]float64{1, 2, 0.5},
		[3]float64{2, 0, 0.5},
	), 0, 4)
	require.NoError(err)

	_, err = g.Stage(edges([3]float64{2, 0, 0.0074}))
	require.NoError(err)
	g.Rebuild()

	arr := g.Snapshot()
	start, end := arr.OutEdges(2)
	require.Equal(1, end-start)
	require.InDelta(0.0074, arblog.Rate(arr.EdgeWeights[start]), 1e-9)
}

func TestRebuild_NodeCountNeverShrinks(t *testing.T) {
	require := require.New(t)

	g, err := csrgraph.NewFromEdges(edges([3]float64{0, 1, 2.0}), 5, 4)
	require.NoError(err)
	require.Equal(5, g.NodeCount())

	_, err = g.Stage(edges([3]float64{0, 1, 3.0}))
	require.NoError(err)
	g.Rebuild()
	require.Equal(5, g.NodeCount())
}
