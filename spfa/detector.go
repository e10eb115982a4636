package spfa

import (
	"fmt"

	"github.com/fxarb/arbiter/arblog"
	"github.com/fxarb/arbiter/arbtypes"
	"github.com/fxarb/arbiter/csrgraph"
)

// Detector runs SPFA over a csrgraph.Arrays snapshot in search of a
// profitable (negative-weight) cycle. The zero value is ready to use.
type Detector struct{}

// FindProfitableCycle searches arrays for a profitable cycle, relaxing each
// node at most opts.HopCap times before handing the over-relaxed node to
// cycle reconstruction.
//
// Returns (cycle, true, nil) when a cycle is found, (nil, false, nil) when
// the queue empties with none found, and an error only for
// arbtypes.ErrGraphInconsistent — a dangling predecessor caused by a
// concurrent rebuild racing this run. Callers should treat that error as
// "retry on the next snapshot", never as a pipeline failure.
func (Detector) FindProfitableCycle(arrays *csrgraph.Arrays, opts Options) (*arbtypes.Cycle, bool, error) {
	n := arrays.NodeCount
	if n == 0 {
		return nil, false, nil
	}
	hopCap := opts.HopCap
	if hopCap < 1 {
		hopCap = n
	}

	distance := make([]float64, n)
	relaxCount := make([]int, n)
	inQueue := make([]bool, n)
	predEdgeIdx := make([]int, n)
	for i := range predEdgeIdx {
		predEdgeIdx[i] = noPred
	}

	// Seed every node at distance zero, as if a virtual zero-weight
	// super-source connected to all of them. This makes detection sound
	// on disconnected graphs.
	queue := make([]int, n)
	for v := 0; v < n; v++ {
		queue[v] = v
		inQueue[v] = true
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		inQueue[u] = false

		start, end := arrays.OutEdges(u)
		for i := start; i < end; i++ {
			v := arrays.EdgeTargets[i]
			w := arrays.EdgeWeights[i]
			if distance[u]+w >= distance[v] {
				continue
			}
			distance[v] = distance[u] + w
			predEdgeIdx[v] = i
			relaxCount[v]++

			if relaxCount[v] >= hopCap {
				cycle, err := reconstruct(v, predEdgeIdx, arrays)
				if err != nil {
					return nil, false, err
				}
				if cycle.LogRateSum < 0 {
					return cycle, true, nil
				}
				// A relax-count trip without a genuinely negative
				// cycle can happen on floating-point ties; fall
				// through and keep relaxing rather than report a
				// false positive.
			}

			if !inQueue[v] {
				queue = append(queue, v)
				inQueue[v] = true
			}
		}
	}

	return nil, false, nil
}

// reconstruct walks predEdgeIdx back from the over-relaxed node v to find a
// cycle, following spec.md's two-stage walk: first |V| hops to guarantee
// landing inside the cycle (a finite tail cannot be longer than |V|-1
// edges), then a second walk from that point back to itself, recording
// edges along the way.
func reconstruct(v int, predEdgeIdx []int, arrays *csrgraph.Arrays) (*arbtypes.Cycle, error) {
	n := arrays.NodeCount

	trace := v
	for i := 0; i < n; i++ {
		edgeIdx := predEdgeIdx[trace]
		if edgeIdx == noPred {
			return nil, fmt.Errorf("spfa: walk-back from node %d: %w", v, arbtypes.ErrGraphInconsistent)
		}
		src, ok := arrays.EdgeSource(edgeIdx)
		if !ok {
			return nil, fmt.Errorf("spfa: walk-back from node %d: %w", v, arbtypes.ErrGraphInconsistent)
		}
		trace = src
	}

	cycleStart := trace
	current := cycleStart
	var edgeIndices []int
	for {
		edgeIdx := predEdgeIdx[current]
		if edgeIdx == noPred {
			return nil, fmt.Errorf("spfa: loop closure from node %d: %w", cycleStart, arbtypes.ErrGraphInconsistent)
		}
		edgeIndices = append(edgeIndices, edgeIdx)

		src, ok := arrays.EdgeSource(edgeIdx)
		if !ok {
			return nil, fmt.Errorf("spfa: loop closure from node %d: %w", cycleStart, arbtypes.ErrGraphInconsistent)
		}
		current = src
		if current == cycleStart {
			break
		}
	}

	// edgeIndices was recorded walking backwards (target to source); the
	// forward cycle is the reverse.
	for i, j := 0, len(edgeIndices)-1; i < j; i, j = i+1, j-1 {
		edgeIndices[i], edgeIndices[j] = edgeIndices[j], edgeIndices[i]
	}

	path := make([]arbtypes.CycleEdge, 0, len(edgeIndices))
	rates := make([]float64, 0, len(edgeIndices))
	var logRateSum float64
	for _, idx := range edgeIndices {
		weight := arrays.EdgeWeights[idx]
		target := arrays.EdgeTargets[idx]
		source, _ := arrays.EdgeSource(idx)
		rate := arblog.Rate(weight)

		path = append(path, arbtypes.CycleEdge{
			From: arbtypes.NodeID(source),
			To:   arbtypes.NodeID(target),
			Rate: rate,
		})
		rates = append(rates, rate)
		logRateSum += weight
	}

	return &arbtypes.Cycle{
		Path:       path,
		Rates:      rates,
		LogRateSum: logRateSum,
	}, nil
}
