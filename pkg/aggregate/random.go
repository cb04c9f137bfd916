package aggregate

import (
	"math/rand/v2"
	"sync"
)

// RandomSource yields values in [0, 1). Production uses an unseeded source, so
// synthetic series and order statuses differ between builds.
type RandomSource interface {
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// DefaultRandom returns the process-wide random source.
func DefaultRandom() RandomSource { return globalRandom{} }

// Sequence replays a fixed list of values, cycling when exhausted.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence builds a deterministic source.
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
