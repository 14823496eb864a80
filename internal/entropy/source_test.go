package entropy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceDeterminism(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)

	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Float(), b.Float(), "draw %d diverged", i)
	}
}

func TestUniformBounds(t *testing.T) {
	src := NewSource(1)
	for i := 0; i < 10000; i++ {
		v := src.Uniform(0.9, 1.1)
		assert.GreaterOrEqual(t, v, 0.9)
		assert.Less(t, v, 1.1)
	}
}

func TestPoissonMean(t *testing.T) {
	// Quarterly claim scenario: 500 policies at 5% annual risk.
	const lambda = 0.05 / 4 * 500 // 6.25

	src := NewSource(7)
	total := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		total += src.Poisson(lambda)
	}

	mean := float64(total) / trials
	assert.InDelta(t, lambda, mean, 0.2)
}

func TestPoissonEdgeCases(t *testing.T) {
	src := NewSource(3)

	assert.Equal(t, 0, src.Poisson(0))
	assert.Equal(t, 0, src.Poisson(-1))

	// Large means switch to the normal approximation and stay near lambda.
	total := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		total += src.Poisson(10000)
	}
	mean := float64(total) / trials
	assert.InDelta(t, 10000, mean, 50)
}

func TestLogNormalMedian(t *testing.T) {
	// The median of LogNormal(mu, sigma) is exp(mu).
	mu := math.Log(24000)
	src := NewSource(11)

	below := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		v := src.LogNormal(mu, 0.7)
		require.Greater(t, v, 0.0)
		if v < 24000 {
			below++
		}
	}
	assert.InDelta(t, 0.5, float64(below)/trials, 0.02)
}
