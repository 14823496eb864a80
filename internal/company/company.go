// Package company provides the insurance-company ledger: cash, holdings,
// policies in force, premium rates, advertising budgets, claims history,
// and the per-turn financial reports derived from them.
package company

import (
	"github.com/talgya/underwriters/internal/market"
)

// ClaimKind distinguishes routine claims from catastrophe claims.
type ClaimKind string

const (
	ClaimRegular     ClaimKind = "regular"
	ClaimCatastrophe ClaimKind = "catastrophe"
)

// Claim is one paid loss. Appended to the owning company's history and never
// mutated afterwards.
type Claim struct {
	ID     string        `json:"id"`
	Line   market.LineID `json:"line"`
	Amount float64       `json:"amount"`
	Turn   int           `json:"turn"`
	Kind   ClaimKind     `json:"kind"`
}

// Company is one market participant, player or AI controlled. Cash reflects
// exactly premium inflow − claims − advertising − investment purchases +
// investment proceeds and income, accumulated turn over turn.
type Company struct {
	Name              string                    `json:"name"`
	Cash              float64                   `json:"cash"`
	Investments       map[string]int            `json:"investments"`   // asset ID → shares
	PoliciesSold      map[market.LineID]int     `json:"policies_sold"` // Recomputed every turn
	PremiumRates      map[market.LineID]float64 `json:"premium_rates"`
	AdvertisingBudget map[market.LineID]float64 `json:"advertising_budget"`
	ClaimsHistory     []Claim                   `json:"claims_history"`
	Reports           []FinancialReport         `json:"financial_history"`
}

// New creates a company with the given starting cash and empty books.
func New(name string, cash float64) *Company {
	return &Company{
		Name:              name,
		Cash:              cash,
		Investments:       make(map[string]int),
		PoliciesSold:      make(map[market.LineID]int),
		PremiumRates:      make(map[market.LineID]float64),
		AdvertisingBudget: make(map[market.LineID]float64),
	}
}

// Rate returns the company's premium rate for a line, falling back to the
// given base market rate when none has been set.
func (c *Company) Rate(line market.LineID, baseRate float64) float64 {
	if r, ok := c.PremiumRates[line]; ok {
		return r
	}
	return baseRate
}

// QuarterlyRevenue is one quarter of annual premium across all lines in
// force, at the company's current rates.
func (c *Company) QuarterlyRevenue(baseRates map[market.LineID]float64) float64 {
	total := 0.0
	for line, policies := range c.PoliciesSold {
		total += c.Rate(line, baseRates[line]) * float64(policies)
	}
	return total / 4
}

// LineRevenue is the annualized premium revenue for a single line.
func (c *Company) LineRevenue(line market.LineID, baseRate float64) float64 {
	return c.Rate(line, baseRate) * float64(c.PoliciesSold[line])
}

// TotalPolicies is the count of policies in force across all lines.
func (c *Company) TotalPolicies() int {
	total := 0
	for _, n := range c.PoliciesSold {
		total += n
	}
	return total
}

// PayClaims deducts the claims from cash, appends them to the history, and
// returns the total amount paid.
func (c *Company) PayClaims(claims []Claim) float64 {
	total := 0.0
	for _, cl := range claims {
		total += cl.Amount
	}
	c.Cash -= total
	c.ClaimsHistory = append(c.ClaimsHistory, claims...)
	return total
}

// ClaimsPaidInTurn sums claim amounts recorded for one turn.
func (c *Company) ClaimsPaidInTurn(turn int) float64 {
	total := 0.0
	for _, cl := range c.ClaimsHistory {
		if cl.Turn == turn {
			total += cl.Amount
		}
	}
	return total
}

// SpendAdvertising deducts the full advertising budget from cash and returns
// the amount spent. Called after the budget has influenced the current
// turn's demand allocation; advertising is paid in arrears.
func (c *Company) SpendAdvertising() float64 {
	total := 0.0
	for _, budget := range c.AdvertisingBudget {
		total += budget
	}
	c.Cash -= total
	return total
}

// AddReport appends a finished report to the company's financial history.
func (c *Company) AddReport(r FinancialReport) {
	c.Reports = append(c.Reports, r)
}
