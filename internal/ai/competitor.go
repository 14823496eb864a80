package ai

import (
	"github.com/talgya/underwriters/internal/company"
	"github.com/talgya/underwriters/internal/market"
	"github.com/talgya/underwriters/internal/portfolio"
)

// Pricing and budget limits shared by every strategy.
const (
	priceUndercut   = 0.95 // Rate relative to the player when chasing share
	priceMarkup     = 1.02 // Rate relative to the player when defending
	minRateFraction = 0.85 // Profitability floor relative to the base rate
	maxRateStep     = 0.10 // Max turn-over-turn rate change

	adPushFactor = 1.5 // Budget scale when under target share
	adHoldFactor = 0.8 // Budget scale when at or above target
	adFloorLive  = 10000.0
	adFloorEntry = 5000.0
	adCashCap    = 0.25 // Advertising capped at this fraction of cash

	investMinCash  = 50000.0  // Below this, skip investing entirely
	reserveFloor   = 100000.0 // Minimum operating reserve
	reservePerUnit = 100.0    // Reserve per policy in force
)

// Competitor is a Company driven by a fixed Strategy. Composition instead of
// subclassing keeps serialization symmetric with the player company.
type Competitor struct {
	*company.Company
	Strategy Strategy
}

// NewCompetitor creates an AI company with the given profile's strategy.
func NewCompetitor(name string, cash float64, profile RiskProfile) (*Competitor, error) {
	strategy, err := StrategyFor(profile)
	if err != nil {
		return nil, err
	}
	return &Competitor{
		Company:  company.New(name, cash),
		Strategy: strategy,
	}, nil
}

// View is the slice of game state a competitor may read when deciding.
type View struct {
	Market      *market.Market
	PlayerRates map[market.LineID]float64 // Resolved player rate per line
}

// Decide runs the competitor's full decision pass for the turn: pricing,
// then advertising, then investment. Investment buys record order flow
// against the traded assets.
func (c *Competitor) Decide(v View, pf *portfolio.Engine) {
	c.decidePricing(v)
	c.decideAdvertising(v)
	c.decideInvestments(pf)
}

// decidePricing moves each line's rate toward a strategy target: undercut
// the player while under target share, hold or nudge above otherwise.
// Rates never drop below 85% of the base rate and never move more than 10%
// in one turn.
func (c *Competitor) decidePricing(v View) {
	for _, line := range v.Market.Lines() {
		base := v.Market.BaseRate(line)

		current, ok := c.PremiumRates[line]
		if !ok {
			// First sight of this line: enter at the market rate.
			c.PremiumRates[line] = base
			continue
		}

		seg := v.Market.Segment(line)
		playerRate := v.PlayerRates[line]

		share := 0.0
		if seg.MarketSize > 0 {
			share = float64(c.PoliciesSold[line]) / float64(seg.MarketSize)
		}

		var target float64
		if share < c.Strategy.TargetShare {
			target = min(playerRate*priceUndercut, base*(1-0.1*c.Strategy.PriceSensitivity))
		} else {
			target = max(base, playerRate*priceMarkup)
		}

		target = max(target, base*minRateFraction)

		// No rate shocks: clamp the move to ±10% of the current rate.
		step := current * maxRateStep
		c.PremiumRates[line] = clamp(target, current-step, current+step)
	}
}

// decideAdvertising budgets a strategy-fixed share of each line's revenue,
// pushed harder under target share and eased off above it, with floors for
// active and entry lines and a cap at a quarter of cash.
func (c *Competitor) decideAdvertising(v View) {
	for _, line := range v.Market.Lines() {
		base := v.Market.BaseRate(line)
		revenue := c.LineRevenue(line, base)
		budget := revenue * c.Strategy.AdvertisingRatio

		seg := v.Market.Segment(line)
		share := 0.0
		if seg.MarketSize > 0 {
			share = float64(c.PoliciesSold[line]) / float64(seg.MarketSize)
		}
		if share < c.Strategy.TargetShare {
			budget *= adPushFactor
		} else {
			budget *= adHoldFactor
		}

		if revenue > 0 {
			budget = max(budget, adFloorLive)
		} else {
			budget = adFloorEntry
		}
		budget = min(budget, c.Cash*adCashCap)
		if budget < 0 {
			budget = 0
		}

		c.AdvertisingBudget[line] = budget
	}
}

// decideInvestments puts cash above the operating reserve to work as a
// proportional allocator: the investable amount splits evenly across all
// assets and buys whole shares in each. Deliberately simple; profile risk
// appetite shows up in how much is invested, not in asset selection.
func (c *Competitor) decideInvestments(pf *portfolio.Engine) {
	if c.Cash < investMinCash {
		return
	}

	reserve := max(reserveFloor, reservePerUnit*float64(c.TotalPolicies()))
	investable := min(c.Cash-reserve, c.Cash*c.Strategy.InvestRatio)
	if investable <= 0 {
		return
	}

	ids := pf.AssetIDs()
	perAsset := investable / float64(len(ids))
	for _, id := range ids {
		a := pf.Asset(id)
		shares := int(perAsset / a.CurrentPrice)
		if shares <= 0 {
			continue
		}
		// Cannot fail: the per-asset slice is within remaining cash.
		_ = pf.Buy(c.Company, id, shares)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
