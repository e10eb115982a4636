package producer

import (
	"math/rand"

	"github.com/fxarb/arbiter/arbtypes"
)

// defaultSimSeed is the fixed seed used when SimConfig.Seed == 0, so a
// zero-value config still yields a deterministic edge sequence.
const defaultSimSeed int64 = 1

// SimConfig bounds the edges a SimStreamer generates.
type SimConfig struct {
	// NodeCount is the exclusive upper bound on generated node IDs: edges
	// only ever reference nodes in [0, NodeCount).
	NodeCount int
	// EdgesPerBatch is how many edges NextBatch returns each call.
	EdgesPerBatch int
	// RateMin and RateMax bound the uniformly sampled exchange rate.
	// RateMin must be positive and strictly less than RateMax.
	RateMin float64
	RateMax float64
	// Seed seeds the RNG. Zero selects defaultSimSeed.
	Seed int64
}

// SimStreamer generates synthetic edges uniformly at random over a fixed
// node and rate range. It never signals ErrStreamDone; callers stop it by
// cancelling the Producer's context.
type SimStreamer struct {
	cfg SimConfig
	rng *rand.Rand
}

// NewSimStreamer builds a SimStreamer from cfg. NodeCount must be at least
// 2 (an edge needs two distinct endpoints) and EdgesPerBatch at least 1.
func NewSimStreamer(cfg SimConfig) (*SimStreamer, error) {
	if cfg.NodeCount < 2 {
		return nil, arbtypes.ErrConfiguration
	}
	if cfg.EdgesPerBatch < 1 {
		return nil, arbtypes.ErrConfiguration
	}
	if cfg.RateMin <= 0 || cfg.RateMax <= cfg.RateMin {
		return nil, arbtypes.ErrConfiguration
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = defaultSimSeed
	}

	return &SimStreamer{cfg: cfg, rng: rand.New(rand.NewSource(seed))}, nil
}

// NextBatch generates cfg.EdgesPerBatch random edges. It never returns an
// error.
func (s *SimStreamer) NextBatch() (arbtypes.EdgeBatch, error) {
	batch := make(arbtypes.EdgeBatch, s.cfg.EdgesPerBatch)
	for i := range batch {
		from := s.rng.Intn(s.cfg.NodeCount)
		to := s.rng.Intn(s.cfg.NodeCount)
		for to == from {
			to = s.rng.Intn(s.cfg.NodeCount)
		}
		rate := s.cfg.RateMin + s.rng.Float64()*(s.cfg.RateMax-s.cfg.RateMin)

		batch[i] = arbtypes.Edge{
			From: arbtypes.NodeID(from),
			To:   arbtypes.NodeID(to),
			Rate: rate,
		}
	}
	return batch, nil
}
