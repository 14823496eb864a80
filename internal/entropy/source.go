// Package entropy provides the seeded random source shared by all stochastic
// systems. A single Source is injected through the engine constructor so a
// given seed always produces the same simulation; there is no package-level
// generator.
package entropy

import (
	"math"
	"math/rand"
)

// Source is a deterministic stream of random draws. Not safe for concurrent
// use; the turn pipeline is single-threaded and draws in a fixed order.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a Source seeded with the given value.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float returns a random float64 in [0, 1).
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Uniform returns a random float64 in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Intn returns a random int in [0, n).
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// Normal returns a draw from N(mean, stddev).
func (s *Source) Normal(mean, stddev float64) float64 {
	return mean + stddev*s.rng.NormFloat64()
}

// LogNormal returns a draw whose logarithm is N(mu, sigma).
func (s *Source) LogNormal(mu, sigma float64) float64 {
	return math.Exp(s.Normal(mu, sigma))
}

// Poisson returns a draw from a Poisson distribution with the given mean.
// Knuth's product method is used for small means; above that the normal
// approximation avoids the exp(-lambda) underflow.
func (s *Source) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	if lambda > 500 {
		n := s.Normal(lambda, math.Sqrt(lambda))
		if n < 0 {
			return 0
		}
		return int(n + 0.5)
	}

	threshold := math.Exp(-lambda)
	count := 0
	p := 1.0
	for {
		p *= s.rng.Float64()
		if p <= threshold {
			return count
		}
		count++
	}
}
