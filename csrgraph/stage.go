package csrgraph

import "github.com/fxarb/arbiter/arbtypes"

// Stage appends a batch of raw edges to the pending buffer. It is O(1) per
// edge and never touches the committed CSR arrays. An empty batch is a
// documented no-op: pending and the arrays are left untouched and
// thresholdReached reports false.
//
// Stage validates every edge before appending: a non-positive or
// non-finite rate, or a negative NodeID, fails the whole batch and leaves
// pending unchanged — partial batches are never staged.
//
// thresholdReached reports whether len(pending) >= rebuildLimit after the
// append; the Writer uses this as the signal to rebuild.
func (g *GraphCSR) Stage(batch arbtypes.EdgeBatch) (thresholdReached bool, err error) {
	if len(batch) == 0 {
		return false, nil
	}
	staged, err := validateAll(batch)
	if err != nil {
		return false, err
	}

	g.mu.Lock()
	g.pending = append(g.pending, staged...)
	thresholdReached = len(g.pending) >= g.rebuildLimit
	g.mu.Unlock()

	return thresholdReached, nil
}

// PendingLen reports the current size of the staging buffer.
func (g *GraphCSR) PendingLen() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.pending)
}
