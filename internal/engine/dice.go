package engine

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// Roller produces uniformly distributed integers in [min, max].
// The damage model only ever draws through a Roller so tests can pin results.
type Roller interface {
	Roll(min, max int) int
}

// CryptoRoller draws from crypto/rand.
type CryptoRoller struct{}

// Roll fetches a strongly uniform integer via crypto/rand.
func (CryptoRoller) Roll(min, max int) int {
	if max <= min {
		return min
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	if err != nil {
		return min
	}
	return min + int(n.Int64())
}

// SeededRoller is a reproducible PCG stream, used by the headless simulator.
type SeededRoller struct {
	r *mrand.Rand
}

// NewSeededRoller returns a roller whose sequence depends only on seed.
func NewSeededRoller(seed uint64) *SeededRoller {
	return &SeededRoller{r: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededRoller) Roll(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.r.IntN(max-min+1)
}

// SequenceRoller replays queued results, clamped into the requested range.
// Once the queue is drained it returns min.
type SequenceRoller struct {
	queue []int
	Calls int
}

// NewSequenceRoller prepares a deterministic sequence for the next calls to Roll.
func NewSequenceRoller(results ...int) *SequenceRoller {
	return &SequenceRoller{queue: results}
}

// Push appends more results to the queue.
func (s *SequenceRoller) Push(results ...int) {
	s.queue = append(s.queue, results...)
}

func (s *SequenceRoller) Roll(min, max int) int {
	s.Calls++
	if len(s.queue) == 0 {
		return min
	}
	val := s.queue[0]
	s.queue = s.queue[1:]
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
