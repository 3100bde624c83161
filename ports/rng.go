package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides request-scoped random number generators
type RNGPort interface {
	// Stream returns a fresh generator for a named operation; equal names and seeds give equal streams
	Stream(ctx context.Context, name string) *rand.Rand
}
