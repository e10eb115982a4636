// Package spfa implements negative-cycle detection over a csrgraph.Arrays
// snapshot using the Shortest Path Faster Algorithm: a queue-based
// Bellman-Ford variant that only re-relaxes nodes whose distance last
// improved.
//
// Because every node starts at distance zero (a virtual zero-weight
// super-source connects to all of them), detection is sound even on
// disconnected graphs: a profitable cycle in any component is found
// regardless of which component FindProfitableCycle happens to be entered
// from.
package spfa

// noPred is the sentinel stored in predEdgeIdx for a node that has never
// been relaxed.
const noPred = -1

// Options configures a single detection run.
type Options struct {
	// HopCap is the relax-count threshold that triggers cycle
	// reconstruction for a node. The spec's recommended default is |V|.
	HopCap int
}

// DefaultOptions returns HopCap == nodeCount, the spec's default.
func DefaultOptions(nodeCount int) Options {
	return Options{HopCap: nodeCount}
}
