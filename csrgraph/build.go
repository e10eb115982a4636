package csrgraph

import (
	"fmt"
	"sort"

	"github.com/fxarb/arbiter/arbtypes"
	"github.com/fxarb/arbiter/arblog"
)

// NewFromEdges builds a GraphCSR from an initial edge set and a declared
// node count. Non-positive or non-finite rates are rejected; NodeID growth
// and deduplication follow the same rules as Rebuild.
func NewFromEdges(edges []arbtypes.Edge, nodeCount, rebuildLimit int) (*GraphCSR, error) {
	staged, err := validateAll(edges)
	if err != nil {
		return nil, err
	}
	arrays := buildArrays(staged, nodeCount)
	g := New(rebuildLimit)
	g.arrays = arrays
	return g, nil
}

// validateAll converts raw edges to stagedEdge form, rejecting invalid rates
// or node ids. It never disqualifies an edge silently: any invalid input is
// surfaced as an error, matching the InputValidation error kind.
func validateAll(edges []arbtypes.Edge) ([]stagedEdge, error) {
	out := make([]stagedEdge, 0, len(edges))
	for _, e := range edges {
		se, err := validateOne(e)
		if err != nil {
			return nil, err
		}
		out = append(out, se)
	}
	return out, nil
}

func validateOne(e arbtypes.Edge) (stagedEdge, error) {
	if e.From < 0 || e.To < 0 {
		return stagedEdge{}, fmt.Errorf("csrgraph: edge %d->%d: %w", e.From, e.To, arbtypes.ErrNegativeNodeID)
	}
	w, err := arblog.Weight(e.Rate)
	if err != nil {
		return stagedEdge{}, fmt.Errorf("csrgraph: edge %d->%d rate %g: %w", e.From, e.To, e.Rate, err)
	}
	return stagedEdge{from: int(e.From), to: int(e.To), rate: e.Rate, weight: w}, nil
}

// buildArrays is the pure, lock-free core of rebuild: given a combined set of
// staged edges (already validated) and a minimum node count, it deduplicates
// by (from,to) keeping the latest occurrence, sorts each source's outgoing
// edges by destination ascending, and produces a fresh immutable Arrays.
func buildArrays(edges []stagedEdge, minNodeCount int) *Arrays {
	type key struct{ from, to int }

	// Deduplicate: later entries in insertion order overwrite earlier ones.
	winners := make(map[key]stagedEdge, len(edges))
	order := make([]key, 0, len(edges))
	for _, e := range edges {
		k := key{e.from, e.to}
		if _, seen := winners[k]; !seen {
			order = append(order, k)
		}
		winners[k] = e
	}

	nodeCount := minNodeCount
	for _, k := range order {
		if k.from+1 > nodeCount {
			nodeCount = k.from + 1
		}
		if k.to+1 > nodeCount {
			nodeCount = k.to + 1
		}
	}

	buckets := make([][]stagedEdge, nodeCount)
	for _, k := range order {
		e := winners[k]
		buckets[e.from] = append(buckets[e.from], e)
	}

	m := len(order)
	nodePointers := make([]int, nodeCount+1)
	edgeTargets := make([]int, m)
	edgeWeights := make([]float64, m)
	edgeSourceByIndex := make([]int, m)

	cursor := 0
	for u := 0; u < nodeCount; u++ {
		bucket := buckets[u]
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].to < bucket[j].to })
		nodePointers[u] = cursor
		for _, e := range bucket {
			edgeTargets[cursor] = e.to
			edgeWeights[cursor] = e.weight
			edgeSourceByIndex[cursor] = e.from
			cursor++
		}
	}
	nodePointers[nodeCount] = cursor

	return &Arrays{
		NodeCount:         nodeCount,
		NodePointers:      nodePointers,
		EdgeTargets:       edgeTargets,
		EdgeWeights:       edgeWeights,
		EdgeSourceByIndex: edgeSourceByIndex,
	}
}
