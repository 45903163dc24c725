// Package random provides seed generation and stream construction for
// the cascade's deterministic pseudo-random draws.
//
// Seeds come from crypto/rand so unseeded runs are unpredictable, while
// a recorded seed replays the exact draw sequence of a previous run.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewStream returns the uniform stream for one simulation run. All
// stochastic choices of a run must draw from a single stream so a seed
// pins down the whole draw sequence.
func NewStream(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
