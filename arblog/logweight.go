// Package arblog converts between exchange rates and the log-weight space
// the SPFA detector operates in: a cycle is profitable exactly when the sum
// of its log-weights is negative, since multiplying rates corresponds to
// adding their negative logarithms.
package arblog

import (
	"math"

	"github.com/fxarb/arbiter/arbtypes"
)

// Weight converts a strictly positive, finite rate into its SPFA weight
// w = -ln(rate). It returns arbtypes.ErrNonPositiveRate for rate <= 0 or a
// NaN rate, and arbtypes.ErrNonFiniteRate if the resulting weight is not
// finite.
func Weight(rate float64) (float64, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return 0, arbtypes.ErrNonPositiveRate
	}
	w := -math.Log(rate)
	if math.IsInf(w, 0) || math.IsNaN(w) {
		return 0, arbtypes.ErrNonFiniteRate
	}
	return w, nil
}

// Rate inverts Weight: rate = exp(-w). It is the reporting-side transform
// used when a detector surfaces a cycle's edges back to their original
// exchange rates.
func Rate(weight float64) float64 {
	return math.Exp(-weight)
}
