package csrgraph

// ExtractForRebuild is phase one of a rebuild: under a brief read lock it
// copies out every committed edge plus everything currently pending, as a
// flat list the caller can sort, deduplicate and rebuild from without
// holding any lock. It does not touch pending — that happens only once the
// new arrays are committed.
func (g *GraphCSR) ExtractForRebuild() []stagedEdge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	arrays := g.arrays
	combined := make([]stagedEdge, 0, len(arrays.EdgeTargets)+len(g.pending))
	for u := 0; u < arrays.NodeCount; u++ {
		start, end := arrays.OutEdges(u)
		for i := start; i < end; i++ {
			combined = append(combined, stagedEdge{
				from:   u,
				to:     arrays.EdgeTargets[i],
				weight: arrays.EdgeWeights[i],
			})
		}
	}
	combined = append(combined, g.pending...)

	return combined
}

// BuildArrays runs the unlocked heavy-lifting of a rebuild: sort, dedup, and
// CSR-array construction over a combined edge set. It performs no I/O and
// takes no locks, so the Writer can call it between ExtractForRebuild and
// Commit without blocking readers.
func BuildArrays(combined []stagedEdge, minNodeCount int) *Arrays {
	return buildArrays(combined, minNodeCount)
}

// Commit is phase two of a rebuild: under a brief write lock it swaps in the
// freshly built arrays and clears the pending buffer. Because Stage and
// Rebuild are only ever driven by the single Writer goroutine, nothing can
// append to pending between ExtractForRebuild and Commit.
func (g *GraphCSR) Commit(arrays *Arrays) {
	g.mu.Lock()
	g.arrays = arrays
	g.pending = nil
	g.mu.Unlock()
}

// Rebuild runs the full extract->build->commit cycle in one call. It is a
// convenience for callers (such as tests) that don't need to interleave other work between the unlocked build and the
// commit, unlike the Writer which performs the phases explicitly to keep
// write-lock hold times visible in its own control flow.
func (g *GraphCSR) Rebuild() {
	combined := g.ExtractForRebuild()
	g.Commit(BuildArrays(combined, g.NodeCount()))
}
