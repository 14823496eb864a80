package market

import (
	"github.com/talgya/underwriters/internal/entropy"
)

// Segment is one (state, line) market with its risk and demand state.
type Segment struct {
	Line             LineID  `json:"line"`
	Name             string  `json:"name"`
	BaseRisk         float64 `json:"base_risk"`         // Annual claim frequency, 0–1
	PriceSensitivity float64 `json:"price_sensitivity"` // Aggregate elasticity
	MarketSize       int     `json:"market_size"`       // Capacity
	CurrentDemand    int     `json:"current_demand"`    // <= MarketSize

	// BaseDemand anchors the demand-capacity update; CurrentDemand swings
	// around BaseDemand × growth with the economic cycle and seasons.
	BaseDemand int `json:"base_demand"`

	// Consumers is the individual population for the consumer-choice model.
	// Nil (or empty) means the segment runs in aggregate elasticity mode.
	Consumers []*Consumer `json:"-"`
}

// Capacity is the number of policies that may be allocated this turn.
func (s *Segment) Capacity() int {
	if s.CurrentDemand < s.MarketSize {
		return s.CurrentDemand
	}
	return s.MarketSize
}

// SpawnConsumers populates the segment with MarketSize consumers. Individual
// price sensitivity scatters around the segment's aggregate elasticity;
// loyalty is uniform; everyone starts uninsured at neutral satisfaction.
func (s *Segment) SpawnConsumers(rng *entropy.Source, startID uint64) uint64 {
	s.Consumers = make([]*Consumer, 0, s.MarketSize)
	id := startID
	for i := 0; i < s.MarketSize; i++ {
		s.Consumers = append(s.Consumers, &Consumer{
			ID:               id,
			Line:             s.Line,
			PriceSensitivity: s.PriceSensitivity * rng.Uniform(0.7, 1.3),
			Loyalty:          rng.Float(),
			Satisfaction:     0.5,
		})
		id++
	}
	return id
}
