package arbtypes

import "errors"

// Sentinel errors shared by every stage of the pipeline. Callers branch on
// these with errors.Is; call sites attach context with fmt.Errorf("...: %w").
var (
	// ErrNonPositiveRate indicates an edge rate that is zero, negative or
	// NaN.
	ErrNonPositiveRate = errors.New("arbtypes: rate must be strictly positive")

	// ErrNonFiniteRate indicates an edge rate whose log-weight is not
	// finite (for example a +Inf rate).
	ErrNonFiniteRate = errors.New("arbtypes: rate is not finite")

	// ErrNegativeNodeID indicates a NodeID below zero.
	ErrNegativeNodeID = errors.New("arbtypes: node id is negative")

	// ErrEmptyBatch indicates an EdgeBatch with no edges where one was
	// required (producers must never emit an empty batch).
	ErrEmptyBatch = errors.New("arbtypes: edge batch is empty")

	// ErrMalformedRow indicates a CSV row that could not be parsed into
	// an Edge.
	ErrMalformedRow = errors.New("arbtypes: malformed csv row")

	// ErrGraphInconsistent indicates the detector observed a dangling
	// predecessor during cycle reconstruction, almost always because a
	// rebuild raced the read. The searcher recovers by retrying on the
	// next snapshot.
	ErrGraphInconsistent = errors.New("arbtypes: graph snapshot inconsistent during reconstruction")

	// ErrChannelClosed indicates a peer stage has shut down. It signals
	// graceful shutdown, not a failure, to its caller.
	ErrChannelClosed = errors.New("arbtypes: channel closed")

	// ErrConfiguration indicates a configuration value failed validation.
	ErrConfiguration = errors.New("arbtypes: invalid configuration")
)
