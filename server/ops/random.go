package ops

import (
	"math/rand"

	"github.com/iti/rngstream"
)

// Rand is the random source the simulation draws from.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

type streamRand struct {
	s *rngstream.RngStream
}

// NewStreamRand returns a Rand backed by a fresh rngstream substream.
func NewStreamRand(name string) Rand {
	return streamRand{s: rngstream.New(name)}
}

func (r streamRand) Float64() float64 {
	return r.s.RandU01()
}

func (r streamRand) Intn(n int) int {
	i := int(r.s.RandU01() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// NewSeededRand returns a deterministic Rand for reproducible sessions.
func NewSeededRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
