package company

import "math"

// FinancialReport is an immutable per-turn snapshot of one company's results.
// Net income is derived, never stored.
type FinancialReport struct {
	Period            int     `json:"period"`
	Revenue           float64 `json:"revenue"`            // Quarterly premium revenue
	ClaimsPaid        float64 `json:"claims_paid"`
	InvestmentReturns float64 `json:"investment_returns"` // Realized dividends/interest
	UnrealizedGains   float64 `json:"unrealized_gains"`   // Tracked separately, never cash
	OperatingExpenses float64 `json:"operating_expenses"`
}

// NetIncome is revenue + realized investment returns − claims − operating
// expenses. Unrealized gains are excluded.
func (r FinancialReport) NetIncome() float64 {
	return r.Revenue + r.InvestmentReturns - r.ClaimsPaid - r.OperatingExpenses
}

// LossRatio is claims paid over premium revenue. Infinite when there is no
// revenue to absorb losses.
func (r FinancialReport) LossRatio() float64 {
	if r.Revenue <= 0 {
		return math.Inf(1)
	}
	return r.ClaimsPaid / r.Revenue
}

// CombinedRatio is (claims + operating expenses) over premium revenue.
func (r FinancialReport) CombinedRatio() float64 {
	if r.Revenue <= 0 {
		return math.Inf(1)
	}
	return (r.ClaimsPaid + r.OperatingExpenses) / r.Revenue
}

// Summary flattens the report plus its derived quantities for display and
// API responses.
func (r FinancialReport) Summary() map[string]float64 {
	return map[string]float64{
		"period":             float64(r.Period),
		"revenue":            r.Revenue,
		"claims_paid":        r.ClaimsPaid,
		"investment_returns": r.InvestmentReturns,
		"unrealized_gains":   r.UnrealizedGains,
		"operating_expenses": r.OperatingExpenses,
		"net_income":         r.NetIncome(),
		"loss_ratio":         r.LossRatio(),
	}
}
