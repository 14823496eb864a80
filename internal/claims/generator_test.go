package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/underwriters/internal/company"
	"github.com/talgya/underwriters/internal/entropy"
	"github.com/talgya/underwriters/internal/market"
)

var (
	caHome = market.LineID{State: "CA", Kind: market.LineHome}
	caAuto = market.LineID{State: "CA", Kind: market.LineAuto}
)

func testMarket(t *testing.T, catRisk float64) *market.Market {
	t.Helper()
	m, err := market.New(market.Params{
		States: map[market.StateID]*market.StateCharacteristics{
			"CA": {
				Name:                 "California",
				CatastropheRisk:      catRisk,
				CatSeverity:          13.1,
				MarketSizeMultiplier: 1.5,
				EntryCost:            500000,
				GrowthRate:           0.01,
			},
		},
		Segments: []*market.Segment{
			{Line: caHome, BaseRisk: 0.05, PriceSensitivity: 1.2, MarketSize: 3000, CurrentDemand: 2250},
			{Line: caAuto, BaseRisk: 0.15, PriceSensitivity: 1.5, MarketSize: 7500, CurrentDemand: 6000},
		},
		Distributions: map[market.LineID]market.ClaimDistribution{
			caHome: {Mean: 10.086, Sigma: 0.7, CatMean: 13.1},
			caAuto: {Mean: 8.7, Sigma: 0.5},
		},
		FlatRates: map[market.LineKind]float64{
			market.LineHome: 1200,
			market.LineAuto: 900,
		},
		CyclePeriod: 20,
		CycleAmp:    0.15,
		FluctAmp:    0.05,
	}, 42)
	require.NoError(t, err)
	return m
}

func TestGenerateClaimFrequency(t *testing.T) {
	m := testMarket(t, 0) // no catastrophes
	c := company.New("Test Co", 0)
	c.PoliciesSold[caAuto] = 500 // lambda = 0.15/4 * 500 = 18.75

	g := NewGenerator(m, entropy.NewSource(11))

	total := 0
	const turns = 400
	for i := 0; i < turns; i++ {
		claims := g.Generate(c, i)
		for _, cl := range claims {
			assert.Equal(t, caAuto, cl.Line)
			assert.Equal(t, company.ClaimRegular, cl.Kind)
			assert.Greater(t, cl.Amount, 0.0)
			assert.Equal(t, i, cl.Turn)
			assert.NotEmpty(t, cl.ID)
		}
		total += len(claims)
	}

	mean := float64(total) / turns
	assert.InDelta(t, 18.75, mean, 1.0)
}

func TestNoPoliciesNoClaims(t *testing.T) {
	m := testMarket(t, 0.5)
	c := company.New("Test Co", 0)

	g := NewGenerator(m, entropy.NewSource(1))
	for i := 0; i < 50; i++ {
		assert.Empty(t, g.Generate(c, i))
	}
}

func TestCatastrophesOnlyOnHomeLines(t *testing.T) {
	m := testMarket(t, 1.0) // quarterly cat probability = 0.25
	c := company.New("Test Co", 0)
	c.PoliciesSold[caHome] = 200
	c.PoliciesSold[caAuto] = 200

	g := NewGenerator(m, entropy.NewSource(5))

	sawCat := false
	for i := 0; i < 200; i++ {
		for _, cl := range g.Generate(c, i) {
			if cl.Kind == company.ClaimCatastrophe {
				sawCat = true
				assert.Equal(t, caHome, cl.Line)
			}
		}
	}
	assert.True(t, sawCat, "expected at least one catastrophe over 200 turns at 25%% quarterly risk")
}

func TestCatastropheHitsFractionOfPolicies(t *testing.T) {
	m := testMarket(t, 1.0)
	c := company.New("Test Co", 0)
	c.PoliciesSold[caHome] = 1000

	g := NewGenerator(m, entropy.NewSource(9))

	for i := 0; i < 100; i++ {
		catCount := 0
		for _, cl := range g.Generate(c, i) {
			if cl.Kind == company.ClaimCatastrophe {
				catCount++
			}
		}
		if catCount > 0 {
			// A catastrophe claims against 10–30% of in-force policies.
			assert.GreaterOrEqual(t, catCount, 100)
			assert.LessOrEqual(t, catCount, 300)
		}
	}
}

func TestCatastropheRateMatchesRisk(t *testing.T) {
	m := testMarket(t, 0.8) // quarterly probability 0.2
	c := company.New("Test Co", 0)
	c.PoliciesSold[caHome] = 10

	g := NewGenerator(m, entropy.NewSource(21))

	hits := 0
	const trials = 5000
	for i := 0; i < trials; i++ {
		for _, cl := range g.Generate(c, i) {
			if cl.Kind == company.ClaimCatastrophe {
				hits++
				break
			}
		}
	}

	rate := float64(hits) / trials
	assert.InDelta(t, 0.2, rate, 0.02)
}

func TestDeterministicGivenSeed(t *testing.T) {
	run := func() []company.Claim {
		m := testMarket(t, 0.2)
		c := company.New("Test Co", 0)
		c.PoliciesSold[caHome] = 300
		c.PoliciesSold[caAuto] = 800

		g := NewGenerator(m, entropy.NewSource(77))
		var all []company.Claim
		for i := 0; i < 20; i++ {
			all = append(all, g.Generate(c, i)...)
		}
		return all
	}

	a, b := run(), run()
	require.Equal(t, len(a), len(b))
	for i := range a {
		// IDs are random UUIDs; everything drawn from the source must match.
		assert.Equal(t, a[i].Line, b[i].Line)
		assert.Equal(t, a[i].Amount, b[i].Amount)
		assert.Equal(t, a[i].Kind, b[i].Kind)
	}
}
