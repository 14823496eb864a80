package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/underwriters/internal/market"
	"github.com/talgya/underwriters/internal/portfolio"
)

var caAuto = market.LineID{State: "CA", Kind: market.LineAuto}

func testView(t *testing.T, playerRate float64) View {
	t.Helper()
	m, err := market.New(market.Params{
		States: map[market.StateID]*market.StateCharacteristics{
			"CA": {Name: "California", CatSeverity: 13.1, MarketSizeMultiplier: 1.5, GrowthRate: 0.01},
		},
		Segments: []*market.Segment{
			{Line: caAuto, BaseRisk: 0.15, PriceSensitivity: 1.5, MarketSize: 5000, CurrentDemand: 4000},
		},
		Distributions: map[market.LineID]market.ClaimDistribution{
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

	return View{
		Market:      m,
		PlayerRates: map[market.LineID]float64{caAuto: playerRate},
	}
}

func testEngine(t *testing.T) *portfolio.Engine {
	t.Helper()
	e, err := portfolio.NewEngine([]*portfolio.Asset{
		{ID: "SP500", Name: "S&P 500 Index", CurrentPrice: 450, DividendYield: 0.015, Volatility: 0.15},
		{ID: "CORP_BONDS", Name: "Corporate Bonds", CurrentPrice: 100, DividendYield: 0.045, Volatility: 0.08},
	})
	require.NoError(t, err)
	return e
}

func TestStrategyFor(t *testing.T) {
	s, err := StrategyFor(ProfileAggressive)
	require.NoError(t, err)
	assert.Equal(t, 0.40, s.TargetShare)
	assert.Equal(t, 0.80, s.InvestRatio)

	_, err = StrategyFor("reckless")
	assert.Error(t, err)
}

func TestFirstSightEntersAtBaseRate(t *testing.T) {
	c, err := NewCompetitor("Rival", 500000, ProfileBalanced)
	require.NoError(t, err)

	v := testView(t, 850)
	c.decidePricing(v)

	assert.Equal(t, v.Market.BaseRate(caAuto), c.PremiumRates[caAuto])
}

func TestUnderTargetShareUndercutsPlayer(t *testing.T) {
	c, err := NewCompetitor("Rival", 500000, ProfileBalanced)
	require.NoError(t, err)

	v := testView(t, 900)
	c.PremiumRates[caAuto] = 900
	c.PoliciesSold[caAuto] = 0 // share 0, well under the 30% target

	c.decidePricing(v)
	assert.Less(t, c.PremiumRates[caAuto], 900.0)
}

func TestAboveTargetShareHoldsOrRaises(t *testing.T) {
	c, err := NewCompetitor("Rival", 500000, ProfileConservative)
	require.NoError(t, err)

	v := testView(t, 900)
	c.PremiumRates[caAuto] = 900
	c.PoliciesSold[caAuto] = 2000 // 40% share, above the 20% target

	c.decidePricing(v)
	assert.GreaterOrEqual(t, c.PremiumRates[caAuto], 900.0)
}

func TestRateNeverBelowProfitabilityFloor(t *testing.T) {
	c, err := NewCompetitor("Rival", 500000, ProfileAggressive)
	require.NoError(t, err)

	// Player dumps price; over many turns the competitor chases but must
	// stop at 85% of the base rate.
	v := testView(t, 100)
	base := v.Market.BaseRate(caAuto)
	c.PremiumRates[caAuto] = base

	for i := 0; i < 50; i++ {
		prev := c.PremiumRates[caAuto]
		c.decidePricing(v)
		got := c.PremiumRates[caAuto]

		assert.GreaterOrEqual(t, got, base*0.85-1e-9)
		assert.LessOrEqual(t, got, prev*1.10+1e-9)
		assert.GreaterOrEqual(t, got, prev*0.90-1e-9)
	}

	assert.InDelta(t, base*0.85, c.PremiumRates[caAuto], 1e-6)
}

func TestAdvertisingFloorsAndCap(t *testing.T) {
	c, err := NewCompetitor("Rival", 1000000, ProfileBalanced)
	require.NoError(t, err)
	v := testView(t, 900)

	// No policies: entry floor applies.
	c.decideAdvertising(v)
	assert.Equal(t, 5000.0, c.AdvertisingBudget[caAuto])

	// Active line with tiny revenue: live floor applies.
	c.PoliciesSold[caAuto] = 1
	c.decideAdvertising(v)
	assert.Equal(t, 10000.0, c.AdvertisingBudget[caAuto])

	// Cash-strapped: budget caps at a quarter of cash.
	c.Cash = 8000
	c.decideAdvertising(v)
	assert.Equal(t, 2000.0, c.AdvertisingBudget[caAuto])
}

func TestAdvertisingScalesWithRevenue(t *testing.T) {
	c, err := NewCompetitor("Rival", 10000000, ProfileBalanced)
	require.NoError(t, err)
	v := testView(t, 900)

	c.PremiumRates[caAuto] = 900
	c.PoliciesSold[caAuto] = 2000 // above target share, 0.8 hold factor

	c.decideAdvertising(v)
	// revenue 1.8M × ratio 0.10 × hold 0.8
	assert.InDelta(t, 144000.0, c.AdvertisingBudget[caAuto], 1e-6)
}

func TestInvestmentSkipsBelowMinCash(t *testing.T) {
	c, err := NewCompetitor("Rival", 40000, ProfileAggressive)
	require.NoError(t, err)
	pf := testEngine(t)

	c.decideInvestments(pf)
	assert.Empty(t, c.Investments)
	assert.Equal(t, 40000.0, c.Cash)
}

func TestInvestmentKeepsReserve(t *testing.T) {
	c, err := NewCompetitor("Rival", 400000, ProfileAggressive)
	require.NoError(t, err)
	c.PoliciesSold[caAuto] = 2500 // reserve = max(100k, 100×2500) = 250k
	pf := testEngine(t)

	c.decideInvestments(pf)

	assert.GreaterOrEqual(t, c.Cash, 250000.0)
	assert.NotEmpty(t, c.Investments)
}

func TestInvestmentSplitsAcrossAssets(t *testing.T) {
	c, err := NewCompetitor("Rival", 1000000, ProfileBalanced)
	require.NoError(t, err)
	pf := testEngine(t)

	c.decideInvestments(pf)

	// investable = min(1M − 100k, 1M × 0.6) = 600k, 300k per asset
	assert.Equal(t, 300000/450, c.Investments["SP500"])
	assert.Equal(t, 300000/100, c.Investments["CORP_BONDS"])
}
