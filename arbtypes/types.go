// Package arbtypes defines the data types shared across the arbitrage
// pipeline: the raw Edge triple, batches of edges as emitted by producers,
// and the Cycle record published by the searcher.
package arbtypes

import "time"

// NodeID identifies a vertex in the exchange-rate graph. Values are
// non-negative; a negative NodeID is rejected at ingress.
type NodeID int64

// Edge is the input form of a directed exchange-rate edge: from -> to at
// rate. Rate must be strictly positive and finite.
type Edge struct {
	From NodeID
	To   NodeID
	Rate float64
}

// EdgeBatch is a non-empty sequence of edges emitted together by a producer.
// The channel carrying EdgeBatch values is the sole backpressure point
// between a producer and the writer.
type EdgeBatch []Edge

// CycleEdge is one hop of a reported arbitrage cycle, carrying the original
// (not log-transformed) rate for human consumption.
type CycleEdge struct {
	From NodeID
	To   NodeID
	Rate float64
}

// Cycle is a reported arbitrage opportunity: a closed walk whose rates
// multiply to strictly more than one.
//
// Path[0].From == Path[len(Path)-1].To, and for every consecutive pair,
// Path[k].To == Path[k+1].From. LogRateSum is the sum of -ln(rate) along
// Path and is strictly negative for any reported cycle.
type Cycle struct {
	Path       []CycleEdge
	Rates      []float64
	LogRateSum float64

	// FoundAt and SnapshotNodeCount describe the snapshot a cycle was
	// computed against, so a consumer can audit results without
	// re-deriving the graph state that produced them.
	FoundAt           time.Time
	SnapshotNodeCount int
}

// ProductRate returns the product of the cycle's edge rates. For any
// reported cycle this is strictly greater than one.
func (c Cycle) ProductRate() float64 {
	product := 1.0
	for _, r := range c.Rates {
		product *= r
	}
	return product
}
