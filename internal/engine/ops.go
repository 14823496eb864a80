package engine

import (
	"fmt"
	"sort"

	"github.com/talgya/underwriters/internal/market"
	"github.com/talgya/underwriters/internal/portfolio"
)

// BuyAsset purchases shares for the player at the current price. Rejections
// (unknown asset, bad amount, insufficient funds) leave all state unchanged.
func (g *Game) BuyAsset(assetID string, shares int) error {
	return g.Portfolio.Buy(g.Player, assetID, shares)
}

// SellAsset liquidates player shares at the current price.
func (g *Game) SellAsset(assetID string, shares int) error {
	return g.Portfolio.Sell(g.Player, assetID, shares)
}

// SetPremiumRate sets the player's rate for a line. Takes effect at the next
// turn's demand allocation.
func (g *Game) SetPremiumRate(line market.LineID, rate float64) error {
	if g.Market.Segment(line) == nil {
		return fmt.Errorf("set rate %s: %w", line, ErrUnknownLine)
	}
	if rate <= 0 {
		return fmt.Errorf("set rate %s to %v: %w", line, rate, ErrInvalidRate)
	}
	g.Player.PremiumRates[line] = rate
	return nil
}

// SetAdvertisingBudget sets the player's per-line advertising spend. The
// budget recurs every turn until changed and is deducted in arrears.
func (g *Game) SetAdvertisingBudget(line market.LineID, budget float64) error {
	if g.Market.Segment(line) == nil {
		return fmt.Errorf("set advertising %s: %w", line, ErrUnknownLine)
	}
	if budget < 0 {
		return fmt.Errorf("set advertising %s to %v: %w", line, budget, ErrInvalidAmount)
	}
	g.Player.AdvertisingBudget[line] = budget
	return nil
}

// UnlockState opens a geography to the player for its entry cost. Rejected
// when the state is unknown, already unlocked, or unaffordable; a rejected
// call never touches cash. Unlocking is irreversible.
func (g *Game) UnlockState(id market.StateID) error {
	st := g.Market.State(id)
	if st == nil {
		return fmt.Errorf("unlock %s: %w", id, ErrUnknownState)
	}
	if g.Unlocked[id] {
		return fmt.Errorf("unlock %s: %w", id, ErrAlreadyUnlocked)
	}
	if st.EntryCost > g.Player.Cash {
		return fmt.Errorf("unlock %s costs %.0f: %w", id, st.EntryCost, portfolio.ErrInsufficientFunds)
	}

	g.Player.Cash -= st.EntryCost
	g.Unlocked[id] = true
	g.logEvent("expansion", "%s entered %s for $%.0f", g.Player.Name, st.Name, st.EntryCost)
	return nil
}

// CompetitorInfo is one company's public posture in a line.
type CompetitorInfo struct {
	Name              string  `json:"name"`
	RiskProfile       string  `json:"risk_profile,omitempty"` // Empty for the player
	PremiumRate       float64 `json:"premium_rate"`
	Policies          int     `json:"policies"`
	MarketShare       float64 `json:"market_share"` // Of policies sold in the line
	AdvertisingBudget float64 `json:"advertising_budget"`
}

// CompetitorInfoForLine reports every company's standing in a line, player
// included, ordered by descending market share.
func (g *Game) CompetitorInfoForLine(line market.LineID) ([]CompetitorInfo, error) {
	if g.Market.Segment(line) == nil {
		return nil, fmt.Errorf("competitor info %s: %w", line, ErrUnknownLine)
	}

	total := 0
	for _, c := range g.Companies() {
		total += c.PoliciesSold[line]
	}

	base := g.Market.BaseRate(line)
	var infos []CompetitorInfo
	for _, c := range g.Companies() {
		info := CompetitorInfo{
			Name:              c.Name,
			PremiumRate:       c.Rate(line, base),
			Policies:          c.PoliciesSold[line],
			AdvertisingBudget: c.AdvertisingBudget[line],
		}
		if total > 0 {
			info.MarketShare = float64(c.PoliciesSold[line]) / float64(total)
		}
		infos = append(infos, info)
	}
	for i, comp := range g.Competitors {
		infos[i+1].RiskProfile = string(comp.Strategy.Profile)
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].MarketShare > infos[j].MarketShare
	})
	return infos, nil
}

// Indicators exposes the macro picture derived from the economic cycle.
func (g *Game) Indicators() market.Indicators {
	return g.Market.Indicators()
}
