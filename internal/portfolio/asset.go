// Package portfolio provides the investment side of the simulation: asset
// price evolution, dividend/interest accrual, and trade execution with
// order-flow pressure.
package portfolio

import (
	"errors"

	"github.com/talgya/underwriters/internal/entropy"
)

// Trading errors. Rejected operations leave caller state untouched.
var (
	ErrUnknownAsset       = errors.New("unknown asset")
	ErrInvalidAmount      = errors.New("share count must be positive")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
)

// PriceFloor is the minimum asset price after any update.
const PriceFloor = 0.01

// Asset is one tradable instrument. Companies reference assets by ID and
// hold share counts; the engine owns the asset itself.
type Asset struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"current_price"`
	DividendYield float64 `json:"dividend_yield"` // Annual
	Volatility    float64 `json:"volatility"`     // Annual stddev

	// PriceHistory is append-only; reconstructed from the current price on
	// snapshot restore.
	PriceHistory []float64 `json:"-"`

	// NetTrades accumulates signed share volume since the last price
	// update and resets to zero immediately after it.
	NetTrades int `json:"-"`
}

// QuarterlyIncome is the dividend/interest paid on a holding this quarter,
// at the asset's current price.
func (a *Asset) QuarterlyIncome(shares int) float64 {
	return float64(shares) * a.CurrentPrice * a.DividendYield / 4
}

// RecordTrade adds a signed share delta to the order-flow accumulator:
// positive for buys, negative for sells.
func (a *Asset) RecordTrade(shares int) {
	a.NetTrades += shares
}

// UpdatePrice advances the price one quarter: 80% weight on a random walk
// with drift, 20% weight on order-flow pressure from net trading volume,
// floored at PriceFloor. NetTrades resets afterwards.
func (a *Asset) UpdatePrice(rng *entropy.Source) {
	const quarterlyDrift = 0.02 / 4

	shock := rng.Normal(0, a.Volatility/2)
	randomMove := a.CurrentPrice * (quarterlyDrift + shock)

	pressure := float64(a.NetTrades) / 1000
	if pressure > 0.02 {
		pressure = 0.02
	}
	if pressure < -0.02 {
		pressure = -0.02
	}
	marketMove := a.CurrentPrice * pressure

	a.CurrentPrice += 0.8*randomMove + 0.2*marketMove
	if a.CurrentPrice < PriceFloor {
		a.CurrentPrice = PriceFloor
	}

	a.NetTrades = 0
	a.PriceHistory = append(a.PriceHistory, a.CurrentPrice)
}
