package market

import "math"

// Indicators summarizes the macro picture implied by the economic cycle.
// These are presentation-level derivations; nothing in the turn pipeline
// consumes them.
type Indicators struct {
	CyclePosition  float64 `json:"cycle_position"` // Percent of the way through the cycle
	MarketPhase    string  `json:"market_phase"`
	EconomicGrowth float64 `json:"economic_growth"` // -3% to +3%
	InterestRate   float64 `json:"interest_rate"`   // 0.5% to 3.5%
	Unemployment   float64 `json:"unemployment"`    // 3% to 7%
	Inflation      float64 `json:"inflation"`       // 1% to 3%
}

// Indicators derives the current macro indicators from the cycle phase.
// Interest, unemployment, and inflation lag growth by fixed phase offsets.
func (m *Market) Indicators() Indicators {
	phase := m.CyclePhase
	position := phase / (2 * math.Pi) * 100

	var marketPhase string
	switch {
	case position < 25:
		marketPhase = "Early Recovery"
	case position < 50:
		marketPhase = "Expansion"
	case position < 75:
		marketPhase = "Late Cycle"
	default:
		marketPhase = "Contraction"
	}

	return Indicators{
		CyclePosition:  position,
		MarketPhase:    marketPhase,
		EconomicGrowth: 3.0 * math.Sin(phase),
		InterestRate:   2.0 - 1.5*math.Sin(phase-math.Pi/6),
		Unemployment:   5.0 - 2.0*math.Sin(phase-math.Pi/4),
		Inflation:      2.0 + 1.0*math.Sin(phase-math.Pi/3),
	}
}
