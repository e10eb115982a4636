// Package csrgraph implements the compact Compressed Sparse Row graph store
// at the center of the arbitrage pipeline.
//
// Arrays is an immutable snapshot of the CSR representation: node_pointers,
// edge_targets, edge_weights and edge_source_by_index, exactly as specified
// for the graph's read contract. GraphCSR owns the current Arrays plus a
// staging buffer of not-yet-applied edges, and exposes the two-phase
// (stage / rebuild+commit) mutation discipline the Writer drives.
//
// Concurrency:
//   - mu guards the *Arrays pointer and the pending buffer.
//   - Readers take a brief read lock only to copy the *Arrays pointer
//     (cheap: it is a pointer to immutable, shared arrays) — traversal
//     itself happens lock-free against that snapshot.
//   - The writer takes a brief write lock for Stage (append to pending)
//     and again for Commit (swap the pointer, clear pending). The
//     O(n log n) rebuild work in between runs unlocked.
package csrgraph

import "sync"

// Arrays is an immutable CSR snapshot. Once built it is never mutated;
// GraphCSR swaps the pointer to a new Arrays value under its write lock.
type Arrays struct {
	NodeCount         int
	NodePointers      []int
	EdgeTargets       []int
	EdgeWeights       []float64
	EdgeSourceByIndex []int
}

// OutEdges returns the half-open range [start, end) of edge indices
// originating at node u. Each index i in that range has EdgeTargets[i] as
// destination, EdgeWeights[i] as weight, and EdgeSourceByIndex[i] == u.
func (a *Arrays) OutEdges(u int) (start, end int) {
	if u < 0 || u+1 >= len(a.NodePointers) {
		return 0, 0
	}
	return a.NodePointers[u], a.NodePointers[u+1]
}

// EdgeSource returns the source node of edge index i in O(1).
func (a *Arrays) EdgeSource(i int) (int, bool) {
	if i < 0 || i >= len(a.EdgeSourceByIndex) {
		return 0, false
	}
	return a.EdgeSourceByIndex[i], true
}

// emptyArrays is the zero-node, zero-edge CSR snapshot new graphs start from.
func emptyArrays() *Arrays {
	return &Arrays{NodePointers: []int{0}}
}

// GraphCSR is the shared, mutable graph store. The zero value is not usable;
// construct with New or NewFromEdges.
type GraphCSR struct {
	mu           sync.RWMutex
	arrays       *Arrays
	pending      []stagedEdge
	rebuildLimit int
}

// stagedEdge is a validated edge waiting in the pending buffer; its weight
// has already been computed so rebuild never has to re-validate it.
type stagedEdge struct {
	from, to int
	rate     float64
	weight   float64
}

// New creates an empty GraphCSR with the given rebuild threshold. rebuildLimit
// must be at least 1; Stage triggers a rebuild once the pending buffer's
// length reaches it.
func New(rebuildLimit int) *GraphCSR {
	if rebuildLimit < 1 {
		rebuildLimit = 1
	}
	return &GraphCSR{
		arrays:       emptyArrays(),
		rebuildLimit: rebuildLimit,
	}
}
