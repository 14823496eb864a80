// Package demand allocates each segment's policy demand across competing
// companies. Segments with a consumer population run the individual-choice
// utility model; segments without one fall back to the aggregate
// relative-price elasticity formula. A segment keeps its mode for the whole
// game.
package demand

import (
	"math"

	"github.com/talgya/underwriters/internal/company"
	"github.com/talgya/underwriters/internal/entropy"
	"github.com/talgya/underwriters/internal/market"
)

// Consumer-choice tuning. Advertising follows diminishing returns:
// adFactor = 1 + AdEffect × ln(1 + spend/AdNorm).
const (
	AdEffect     = 0.2
	AdNorm       = 10000.0
	ChoiceJitter = 0.05 // ±5% multiplicative noise on utility scores

	SatisfactionGain    = 0.1 // Per turn retained, capped at 1.0
	SatisfactionNeutral = 0.5 // Reset level after switching providers
)

// Allocator assigns policies to companies segment by segment, in one
// consistent pass per segment so total allocation never exceeds capacity.
type Allocator struct {
	Market *market.Market

	rng *entropy.Source
}

// NewAllocator builds an allocator over the given market.
func NewAllocator(m *market.Market, rng *entropy.Source) *Allocator {
	return &Allocator{Market: m, rng: rng}
}

// Allocate recomputes PoliciesSold for every company across every line.
// Lines in locked states allocate zero. Company order is fixed by the caller
// (player first, then the AI roster) and doubles as the tie-break order.
func (a *Allocator) Allocate(companies []*company.Company, unlocked map[market.StateID]bool) {
	for _, line := range a.Market.Lines() {
		seg := a.Market.Segment(line)

		if !unlocked[line.State] {
			for _, c := range companies {
				c.PoliciesSold[line] = 0
			}
			continue
		}

		if len(seg.Consumers) > 0 {
			a.allocateConsumers(seg, companies)
		} else {
			a.allocateAggregate(seg, companies)
		}
	}
}

// allocateConsumers runs the individual utility model. Each shopping
// consumer scores every offer as
//
//	(minPrice/price)^sensitivity × loyaltyFactor × adFactor × noise
//
// and buys from the highest scorer. Ties go to the earliest company in the
// fixed iteration order, never to container ordering or chance.
func (a *Allocator) allocateConsumers(seg *market.Segment, companies []*company.Company) {
	line := seg.Line
	base := a.Market.BaseRate(line)

	rates := make([]float64, len(companies))
	adFactors := make([]float64, len(companies))
	minPrice := math.Inf(1)
	for i, c := range companies {
		rates[i] = c.Rate(line, base)
		adFactors[i] = 1 + AdEffect*math.Log(1+c.AdvertisingBudget[line]/AdNorm)
		if rates[i] < minPrice {
			minPrice = rates[i]
		}
	}

	counts := make([]int, len(companies))

	// Only the first Capacity() consumers shop this turn; demand swings
	// decide how much of the population is in the market.
	shoppers := seg.Consumers
	if limit := seg.Capacity(); limit < len(shoppers) {
		shoppers = shoppers[:limit]
	}

	for _, consumer := range shoppers {
		best := -1
		bestScore := 0.0
		for i, c := range companies {
			score := math.Pow(minPrice/rates[i], consumer.PriceSensitivity)
			if consumer.Provider == c.Name {
				score *= 1 + consumer.Loyalty*consumer.Satisfaction
			}
			score *= adFactors[i]
			score *= a.rng.Uniform(1-ChoiceJitter, 1+ChoiceJitter)

			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}

		winner := companies[best]
		counts[best]++
		if consumer.Provider == winner.Name {
			consumer.Satisfaction = math.Min(1.0, consumer.Satisfaction+SatisfactionGain)
		} else {
			consumer.Provider = winner.Name
			consumer.Satisfaction = SatisfactionNeutral
		}
	}

	for i, c := range companies {
		c.PoliciesSold[line] = counts[i]
	}
}

// allocateAggregate applies the closed-form elasticity model:
//
//	demand = currentDemand × exp(-sensitivity × (price/avgPrice − 1))
//
// with a ±10% uniform variation per company, then scales every company down
// proportionally if the raw total would exceed segment capacity.
func (a *Allocator) allocateAggregate(seg *market.Segment, companies []*company.Company) {
	line := seg.Line
	base := a.Market.BaseRate(line)

	// Average over company rates plus the base market rate, so a market
	// with one expensive player still anchors near the base price.
	sum := base
	rates := make([]float64, len(companies))
	for i, c := range companies {
		rates[i] = c.Rate(line, base)
		sum += rates[i]
	}
	avg := sum / float64(len(companies)+1)

	raw := make([]int, len(companies))
	total := 0
	for i := range companies {
		factor := math.Exp(-seg.PriceSensitivity * (rates[i]/avg - 1))
		d := float64(seg.CurrentDemand) * factor * a.rng.Uniform(0.9, 1.1)
		raw[i] = int(d)
		total += raw[i]
	}

	capacity := seg.Capacity()
	if total > capacity && total > 0 {
		scale := float64(capacity) / float64(total)
		for i := range raw {
			raw[i] = int(float64(raw[i]) * scale)
		}
	}

	for i, c := range companies {
		c.PoliciesSold[line] = raw[i]
	}
}
