package portfolio

import (
	"fmt"
	"sort"

	"github.com/talgya/underwriters/internal/company"
	"github.com/talgya/underwriters/internal/entropy"
)

// Engine owns all tradable assets and executes trades against company
// ledgers. Trades validate before mutating so a rejected order leaves both
// the company and the asset untouched.
type Engine struct {
	Assets map[string]*Asset

	order []string // Sorted asset IDs; fixes the price-update draw order
}

// NewEngine validates the asset table and builds the engine.
func NewEngine(assets []*Asset) (*Engine, error) {
	e := &Engine{Assets: make(map[string]*Asset, len(assets))}
	for _, a := range assets {
		if a.ID == "" {
			return nil, fmt.Errorf("portfolio: asset %q has no ID", a.Name)
		}
		if a.CurrentPrice <= 0 {
			return nil, fmt.Errorf("portfolio: asset %s price %v must be positive", a.ID, a.CurrentPrice)
		}
		if a.Volatility < 0 || a.DividendYield < 0 {
			return nil, fmt.Errorf("portfolio: asset %s has negative yield or volatility", a.ID)
		}
		if _, ok := e.Assets[a.ID]; ok {
			return nil, fmt.Errorf("portfolio: duplicate asset %s", a.ID)
		}
		if len(a.PriceHistory) == 0 {
			a.PriceHistory = []float64{a.CurrentPrice}
		}
		e.Assets[a.ID] = a
		e.order = append(e.order, a.ID)
	}
	sort.Strings(e.order)
	return e, nil
}

// AssetIDs returns all asset IDs in a stable sorted order.
func (e *Engine) AssetIDs() []string {
	return e.order
}

// Asset returns the asset with the given ID, or nil.
func (e *Engine) Asset(id string) *Asset {
	return e.Assets[id]
}

// Buy purchases shares at the current price for the given company. The trade
// is rejected outright when the cost exceeds cash; no partial fills.
func (e *Engine) Buy(c *company.Company, assetID string, shares int) error {
	a, ok := e.Assets[assetID]
	if !ok {
		return fmt.Errorf("buy %s: %w", assetID, ErrUnknownAsset)
	}
	if shares <= 0 {
		return fmt.Errorf("buy %s: %w", assetID, ErrInvalidAmount)
	}
	cost := a.CurrentPrice * float64(shares)
	if cost > c.Cash {
		return fmt.Errorf("buy %d %s at %.2f: %w", shares, assetID, a.CurrentPrice, ErrInsufficientFunds)
	}

	c.Cash -= cost
	c.Investments[assetID] += shares
	a.RecordTrade(shares)
	return nil
}

// Sell liquidates shares at the current price. Rejected when the company
// holds fewer shares than requested.
func (e *Engine) Sell(c *company.Company, assetID string, shares int) error {
	a, ok := e.Assets[assetID]
	if !ok {
		return fmt.Errorf("sell %s: %w", assetID, ErrUnknownAsset)
	}
	if shares <= 0 {
		return fmt.Errorf("sell %s: %w", assetID, ErrInvalidAmount)
	}
	held := c.Investments[assetID]
	if shares > held {
		return fmt.Errorf("sell %d %s with %d held: %w", shares, assetID, held, ErrInsufficientShares)
	}

	c.Cash += a.CurrentPrice * float64(shares)
	c.Investments[assetID] = held - shares
	a.RecordTrade(-shares)
	return nil
}

// Returns holds one company's investment results for a turn.
type Returns struct {
	Income          float64 // Realized dividends/interest, credited to cash
	UnrealizedGains float64 // Price change × shares, never credited
}

// UpdateQuarter accrues income and reprices every asset. Per asset, in
// sorted order: income is credited to each holder at the pre-update price,
// then the price updates (consuming and resetting NetTrades), then each
// holder's unrealized gain accrues from the price change. Company order
// follows the given slice so the whole pass is deterministic.
func (e *Engine) UpdateQuarter(companies []*company.Company, rng *entropy.Source) map[string]*Returns {
	results := make(map[string]*Returns, len(companies))
	for _, c := range companies {
		results[c.Name] = &Returns{}
	}

	for _, id := range e.order {
		a := e.Assets[id]

		for _, c := range companies {
			shares := c.Investments[id]
			if shares <= 0 {
				continue
			}
			income := a.QuarterlyIncome(shares)
			c.Cash += income
			results[c.Name].Income += income
		}

		oldPrice := a.CurrentPrice
		a.UpdatePrice(rng)

		for _, c := range companies {
			if shares := c.Investments[id]; shares > 0 {
				results[c.Name].UnrealizedGains += (a.CurrentPrice - oldPrice) * float64(shares)
			}
		}
	}
	return results
}

// HoldingsValue is the market value of one company's holdings.
func (e *Engine) HoldingsValue(c *company.Company) float64 {
	total := 0.0
	for id, shares := range c.Investments {
		if a, ok := e.Assets[id]; ok {
			total += a.CurrentPrice * float64(shares)
		}
	}
	return total
}
