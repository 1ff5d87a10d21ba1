// Package rng provides the deterministic, splittable random streams used by
// the simulation. Nothing in the engine touches math/rand: every match and
// every decision point inside a match owns a Stream derived from one seed.
package rng

import (
	"hash/fnv"
	"math"
)

const golden = 0x9e3779b97f4a7c15

// Stream is a SplitMix64 generator. The zero value is usable but every
// zero-valued stream yields the same sequence; use New or Split.
type Stream struct {
	key   uint64 // identity used for splitting, never advanced
	state uint64
}

func mix64(z uint64) uint64 {
	z += golden
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func New(seed int64) *Stream {
	k := mix64(uint64(seed))
	return &Stream{key: k, state: k}
}

// Key returns the stream identity. Two streams with the same key produce the
// same sequence.
func (s *Stream) Key() uint64 { return s.key }

// Split derives an independent child stream named by label. The child depends
// only on the parent's key and the label, not on how many values the parent
// has already produced, so call order never changes a child's sequence.
func (s *Stream) Split(label string) *Stream {
	return s.child(hashLabel(label))
}

// SplitIndex derives the i-th child stream.
func (s *Stream) SplitIndex(i uint64) *Stream {
	return s.child(mix64(i*golden + 0x632be59bd9b4e019))
}

func (s *Stream) child(salt uint64) *Stream {
	k := mix64(s.key ^ salt)
	return &Stream{key: k, state: k}
}

func (s *Stream) Uint64() uint64 {
	s.state += golden
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Uint64()>>11) * (1.0 / (1 << 53))
}

// Intn returns a value in [0, n). n <= 0 returns 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Uint64() % uint64(n))
}

// Uniform returns a value in [lo, hi).
func (s *Stream) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + (hi-lo)*s.Float64()
}

// Bernoulli reports success with probability p (clamped to [0,1]).
func (s *Stream) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.Float64() < p
}

// Normal draws from N(mean, sd) with Box-Muller. Both uniforms are always
// consumed so the stream advances by a fixed amount per call.
func (s *Stream) Normal(mean, sd float64) float64 {
	u1 := s.Float64()
	u2 := s.Float64()
	if sd <= 0 {
		return mean
	}
	if u1 < 1e-300 {
		u1 = 1e-300
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + sd*z
}

// DeriveSeed returns the seed of the i-th sub-stream of seed. It is how the
// Monte Carlo runner gives each match an independently reproducible seed.
func DeriveSeed(seed int64, i int) int64 {
	return int64(New(seed).SplitIndex(uint64(i)).Key())
}

func hashLabel(label string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(label))
	return h.Sum64()
}
