package rng

import (
	"context"
	"math/rand"
	"time"
)

// RNGAdapter hands out per-operation generators derived from a base seed
type RNGAdapter struct {
	baseSeed int64
}

// NewRNGAdapter creates an adapter; a zero seed draws a fresh base from the clock,
// so sampling differs between runs unless a seed is configured
func NewRNGAdapter(seed int64) *RNGAdapter {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RNGAdapter{baseSeed: seed}
}

// Seed returns the base seed in use
func (r *RNGAdapter) Seed() int64 {
	return r.baseSeed
}

// Stream creates a generator for a named operation; the same name and base seed give the same sequence
func (r *RNGAdapter) Stream(ctx context.Context, name string) *rand.Rand {
	seed := r.baseSeed
	if name != "" {
		seed += int64(hashString(name))
	}
	return rand.New(rand.NewSource(seed))
}

// hashString is djb2
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c)
	}
	return hash
}
