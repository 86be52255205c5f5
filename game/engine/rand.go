package engine

import (
	"math/rand/v2"
	"time"
)

// Rand is the source of uniform randomness used for placement and random jumps
type Rand interface {
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// NewRand creates a deterministic Rand using the provided seed
func NewRand(seed int64) Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// NewRandFromTime creates a Rand seeded from the wall clock
func NewRandFromTime() Rand {
	return NewRand(time.Now().UnixNano())
}
