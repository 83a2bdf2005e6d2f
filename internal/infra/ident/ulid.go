package ident

import (
	"crypto/rand"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/cratesup/cratesup/internal/platform"
)

// RunIDGenerator produces the ULID that tags all log records of a single
// invocation.
type RunIDGenerator struct {
	clock   platform.Clock
	entropy *ulid.MonotonicEntropy
}

func NewRunIDGenerator() *RunIDGenerator {
	return NewRunIDGeneratorWithClock(platform.RealClock{})
}

func NewRunIDGeneratorWithClock(clock platform.Clock) *RunIDGenerator {
	return &RunIDGenerator{clock: clock, entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *RunIDGenerator) NewID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(g.clock.Now()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return id.String(), nil
}
