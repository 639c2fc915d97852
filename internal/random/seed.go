// Package random supplies seeds for replayable dice rolls.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// Source returns the base seed for one roll.
type Source func() (int64, error)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Fixed replays seed on every call.
func Fixed(seed int64) Source {
	return func() (int64, error) { return seed, nil }
}

// SeedOr returns Fixed(seed) when seed is non-zero and NewSeed otherwise.
func SeedOr(seed int64) Source {
	if seed == 0 {
		return NewSeed
	}
	return Fixed(seed)
}
