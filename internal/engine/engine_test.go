package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/underwriters/internal/config"
	"github.com/talgya/underwriters/internal/market"
	"github.com/talgya/underwriters/internal/portfolio"
)

var caHome = market.LineID{State: "CA", Kind: market.LineHome}

func newTestGame(t *testing.T, mutate func(*config.Scenario)) *Game {
	t.Helper()
	s := config.Default()
	if mutate != nil {
		mutate(s)
	}
	g, err := New(s)
	require.NoError(t, err)
	return g
}

func TestNewGameInitialState(t *testing.T) {
	g := newTestGame(t, nil)

	assert.Equal(t, 0, g.Turn)
	assert.Equal(t, 1000000.0, g.Player.Cash)
	assert.Len(t, g.Competitors, 3)
	assert.Equal(t, []market.StateID{"CA"}, g.UnlockedStates())

	// Player rates start at the base market rates.
	for _, line := range g.Market.Lines() {
		assert.Equal(t, g.Market.BaseRate(line), g.Player.PremiumRates[line])
		assert.Zero(t, g.Player.AdvertisingBudget[line])
	}

	// Player first, then the AI roster.
	companies := g.Companies()
	require.Len(t, companies, 4)
	assert.Equal(t, g.Player, companies[0])
}

func TestTurnAdvancesAndReports(t *testing.T) {
	g := newTestGame(t, nil)

	report := g.EndTurn()
	assert.Equal(t, 1, g.Turn)
	assert.Equal(t, 0, report.Period)
	assert.Greater(t, report.Revenue, 0.0)
	assert.Equal(t, 50000.0, report.OperatingExpenses)

	require.Len(t, g.Player.Reports, 1)
	assert.Equal(t, report, g.Player.Reports[0])
}

// Player cash over a turn moves by exactly premium revenue, minus claims,
// plus realized investment income, minus advertising. Operating expenses are
// a report line, never a cash movement.
func TestPlayerCashIdentity(t *testing.T) {
	g := newTestGame(t, nil)
	require.NoError(t, g.SetAdvertisingBudget(caHome, 20000))
	require.NoError(t, g.BuyAsset("CORP_BONDS", 1000))

	for i := 0; i < 10; i++ {
		before := g.Player.Cash
		adSpend := 0.0
		for _, budget := range g.Player.AdvertisingBudget {
			adSpend += budget
		}

		report := g.EndTurn()

		expected := before + report.Revenue - report.ClaimsPaid + report.InvestmentReturns - adSpend
		assert.InDelta(t, expected, g.Player.Cash, 1e-6, "turn %d", i)
	}
}

func TestSameSeedSameGame(t *testing.T) {
	run := func() []byte {
		g := newTestGame(t, nil)
		require.NoError(t, g.SetPremiumRate(caHome, 6000))
		require.NoError(t, g.SetAdvertisingBudget(caHome, 15000))
		for i := 0; i < 8; i++ {
			g.EndTurn()
		}
		data, err := json.Marshal(g.Snapshot())
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, string(run()), string(run()))
}

func TestDifferentSeedsDiverge(t *testing.T) {
	run := func(seed int64) float64 {
		g := newTestGame(t, func(s *config.Scenario) { s.Seed = seed })
		for i := 0; i < 5; i++ {
			g.EndTurn()
		}
		return g.Player.Cash
	}

	assert.NotEqual(t, run(1), run(2))
}

func TestLockedStateSellsNothing(t *testing.T) {
	g := newTestGame(t, nil)
	g.EndTurn()

	flHome := market.LineID{State: "FL", Kind: market.LineHome}
	flAuto := market.LineID{State: "FL", Kind: market.LineAuto}
	for _, c := range g.Companies() {
		assert.Zero(t, c.PoliciesSold[flHome])
		assert.Zero(t, c.PoliciesSold[flAuto])
	}
}

func TestUnlockState(t *testing.T) {
	g := newTestGame(t, nil)

	before := g.Player.Cash
	require.NoError(t, g.UnlockState("FL"))
	assert.Equal(t, before-300000, g.Player.Cash)
	assert.Equal(t, []market.StateID{"CA", "FL"}, g.UnlockedStates())
	require.NotEmpty(t, g.Events)
	assert.Equal(t, "expansion", g.Events[len(g.Events)-1].Category)

	// Second unlock is rejected and costs nothing.
	after := g.Player.Cash
	err := g.UnlockState("FL")
	assert.ErrorIs(t, err, ErrAlreadyUnlocked)
	assert.Equal(t, after, g.Player.Cash)

	err = g.UnlockState("TX")
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestUnlockStateUnaffordable(t *testing.T) {
	g := newTestGame(t, func(s *config.Scenario) { s.StartingCash = 100000 })

	err := g.UnlockState("FL")
	assert.ErrorIs(t, err, portfolio.ErrInsufficientFunds)
	assert.Equal(t, 100000.0, g.Player.Cash)
	assert.Equal(t, []market.StateID{"CA"}, g.UnlockedStates())
}

func TestSetPremiumRateValidation(t *testing.T) {
	g := newTestGame(t, nil)

	require.NoError(t, g.SetPremiumRate(caHome, 5500))
	assert.Equal(t, 5500.0, g.Player.PremiumRates[caHome])

	err := g.SetPremiumRate(caHome, 0)
	assert.ErrorIs(t, err, ErrInvalidRate)

	err = g.SetPremiumRate(market.LineID{State: "TX", Kind: market.LineAuto}, 900)
	assert.ErrorIs(t, err, ErrUnknownLine)
}

func TestSetAdvertisingBudgetValidation(t *testing.T) {
	g := newTestGame(t, nil)

	require.NoError(t, g.SetAdvertisingBudget(caHome, 12000))
	assert.Equal(t, 12000.0, g.Player.AdvertisingBudget[caHome])

	err := g.SetAdvertisingBudget(caHome, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPlayerTrades(t *testing.T) {
	g := newTestGame(t, nil)

	before := g.Player.Cash
	require.NoError(t, g.BuyAsset("SP500", 100))
	assert.Equal(t, before-45000, g.Player.Cash)

	require.NoError(t, g.SellAsset("SP500", 100))
	assert.Equal(t, before, g.Player.Cash)

	err := g.BuyAsset("GOLD", 1)
	assert.ErrorIs(t, err, portfolio.ErrUnknownAsset)
}

func TestCompetitorInfoForLine(t *testing.T) {
	g := newTestGame(t, nil)
	for i := 0; i < 3; i++ {
		g.EndTurn()
	}

	infos, err := g.CompetitorInfoForLine(caHome)
	require.NoError(t, err)
	require.Len(t, infos, 4)

	totalShare := 0.0
	profiles := 0
	for i, info := range infos {
		totalShare += info.MarketShare
		if info.RiskProfile != "" {
			profiles++
		}
		if i > 0 {
			assert.LessOrEqual(t, info.MarketShare, infos[i-1].MarketShare)
		}
	}
	assert.InDelta(t, 1.0, totalShare, 1e-9)
	assert.Equal(t, 3, profiles)

	_, err = g.CompetitorInfoForLine(market.LineID{State: "TX", Kind: market.LineHome})
	assert.ErrorIs(t, err, ErrUnknownLine)
}

func TestAggregateModeRuns(t *testing.T) {
	g := newTestGame(t, func(s *config.Scenario) { s.DemandMode = config.DemandModeAggregate })

	for i := 0; i < 5; i++ {
		g.EndTurn()
	}

	for _, line := range g.Market.Lines() {
		total := 0
		for _, c := range g.Companies() {
			total += c.PoliciesSold[line]
		}
		assert.LessOrEqual(t, total, g.Market.Segment(line).Capacity())
	}
}

func TestCompetitorsActUnprompted(t *testing.T) {
	g := newTestGame(t, nil)
	for i := 0; i < 4; i++ {
		g.EndTurn()
	}

	for _, comp := range g.Competitors {
		assert.NotEmpty(t, comp.PremiumRates)
		assert.NotEmpty(t, comp.AdvertisingBudget)
		assert.NotEmpty(t, comp.Investments)
	}
}
