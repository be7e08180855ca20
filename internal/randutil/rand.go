// Package randutil builds the *rand.Rand values injected into decks, games and bots.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a generator seeded deterministically from seed. Equal seeds give
// equal shuffles, which is what scripted tests and replayable simulations need.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenRatio64)))
}

// Seed picks a seed from the wall clock for interactive play
func Seed() int64 {
	return time.Now().UnixNano()
}

// Derive returns a child generator for stream n of a parent seed, so each match
// in a batch gets an independent but reproducible deck sequence.
func Derive(seed int64, n int) *rand.Rand {
	return New(seed + int64(n)*int64(goldenRatio64>>1))
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
