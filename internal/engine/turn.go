package engine

import (
	"log/slog"

	"github.com/talgya/underwriters/internal/ai"
	"github.com/talgya/underwriters/internal/company"
	"github.com/talgya/underwriters/internal/market"
)

// EndTurn resolves one quarter and returns the player's financial report.
//
// The ordering is load-bearing: advertising influences demand before it is
// paid for (in arrears), and claims draw against the policies allocated this
// turn, not last turn's counts. The sequence is
//
//  1. AI competitor decisions (pricing, advertising, investment)
//  2. demand allocation across all companies, one pass per segment
//  3. premium collection and claims per company
//  4. portfolio income and price updates
//  5. financial reports, then advertising deduction
//  6. demand-capacity update for the next quarter
//  7. turn counter increment
func (g *Game) EndTurn() company.FinancialReport {
	turn := g.Turn

	// 1. AI decisions react to the player's current posture.
	playerRates := make(map[market.LineID]float64, len(g.Market.Lines()))
	for _, line := range g.Market.Lines() {
		playerRates[line] = g.Player.Rate(line, g.Market.BaseRate(line))
	}
	view := ai.View{Market: g.Market, PlayerRates: playerRates}
	for _, comp := range g.Competitors {
		comp.Decide(view, g.Portfolio)
	}

	companies := g.Companies()

	// 2. One consistent allocation pass per segment.
	g.alloc.Allocate(companies, g.Unlocked)

	// 3. Premiums in, claims out, per company in fixed order.
	revenue := make(map[string]float64, len(companies))
	claimsPaid := make(map[string]float64, len(companies))
	for _, c := range companies {
		premium := c.QuarterlyRevenue(g.Market.BaseRates)
		c.Cash += premium
		revenue[c.Name] = premium

		drawn := g.gen.Generate(c, turn)
		claimsPaid[c.Name] = c.PayClaims(drawn)

		for _, cl := range drawn {
			if cl.Kind == company.ClaimCatastrophe {
				g.logEvent("catastrophe", "catastrophe hit %s policies of %s", cl.Line, c.Name)
				break
			}
		}
	}

	// 4. Dividends and price moves; order flow accumulated during the AI
	// investment step is consumed here.
	returns := g.Portfolio.UpdateQuarter(companies, g.rng)

	// 5. Reports first, then advertising paid in arrears.
	var playerReport company.FinancialReport
	for _, c := range companies {
		r := returns[c.Name]
		report := company.FinancialReport{
			Period:            turn,
			Revenue:           revenue[c.Name],
			ClaimsPaid:        claimsPaid[c.Name],
			InvestmentReturns: r.Income,
			UnrealizedGains:   r.UnrealizedGains,
			OperatingExpenses: g.OperatingExpenses,
		}
		c.AddReport(report)
		c.SpendAdvertising()

		if c == g.Player {
			playerReport = report
		}
	}

	// 6. Demand swings into the next quarter.
	g.Market.UpdateDemand(turn + 1)

	// 7. Commit the turn.
	g.Turn++

	slog.Info("turn resolved",
		"turn", turn,
		"player_cash", g.Player.Cash,
		"player_policies", g.Player.TotalPolicies(),
		"revenue", playerReport.Revenue,
		"claims", playerReport.ClaimsPaid,
		"investment_income", playerReport.InvestmentReturns,
		"net_income", playerReport.NetIncome(),
	)

	return playerReport
}
