// Package rng builds the seeded random sources used throughout the game.
package rng

import (
	"math/rand"
	"time"
)

// New returns a rand.Rand for seed. A zero seed picks one from the clock.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
