package checkout

import (
	"math/rand"
	"sync"
)

// DefaultFailureRate is the chance that a delivery submission hits a simulated gateway failure
const DefaultFailureRate = 0.10

// FaultInjector is consulted once per delivery submission
type FaultInjector interface {
	ShouldFail() bool
}

// FaultFunc adapts a plain function to FaultInjector
type FaultFunc func() bool

func (f FaultFunc) ShouldFail() bool {
	return f()
}

// NeverFail disables the simulated gateway failure
var NeverFail FaultInjector = FaultFunc(func() bool { return false })

// BernoulliFault fails with a fixed probability
type BernoulliFault struct {
	mu   sync.Mutex
	rate float64
	rng  *rand.Rand
}

// NewBernoulliFault creates a fault source failing with probability rate.
// *rand.Rand is not safe for concurrent use so draws are serialized.
func NewBernoulliFault(rate float64, rng *rand.Rand) *BernoulliFault {
	return &BernoulliFault{
		rate: rate,
		rng:  rng,
	}
}

func (b *BernoulliFault) ShouldFail() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Float64() < b.rate
}
