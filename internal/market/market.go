package market

import (
	"fmt"
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Seasonal demand multipliers indexed by calendar quarter (turn % 4).
// Q1 = winter. Auto demand peaks in winter and fall; home peaks in winter.
var seasonalDemand = map[LineKind][4]float64{
	LineAuto: {1.1, 0.9, 1.0, 1.2},
	LineHome: {1.2, 0.9, 0.8, 1.1},
}

// Params carries everything needed to construct a Market. All values come
// from validated scenario configuration.
type Params struct {
	States        map[StateID]*StateCharacteristics
	Segments      []*Segment
	Distributions map[LineID]ClaimDistribution
	FlatRates     map[LineKind]float64 // Flat premium component per line kind
	CyclePeriod   float64              // Quarters per full economic cycle
	CycleAmp      float64              // Economic cycle swing, e.g. 0.15
	FluctAmp      float64              // Smooth noise overlay, e.g. 0.05
}

// Market owns the geography table, segments, base rates, and severity
// distributions, and runs the per-turn demand-capacity update.
type Market struct {
	States        map[StateID]*StateCharacteristics
	Segments      map[LineID]*Segment
	BaseRates     map[LineID]float64
	Distributions map[LineID]ClaimDistribution
	FlatRates     map[LineKind]float64

	CyclePhase  float64 // Position in the economic cycle, [0, 2π)
	CyclePeriod float64
	CycleAmp    float64
	FluctAmp    float64

	lines []LineID // Stable sorted iteration order
	noise opensimplex.Noise
}

// New validates the parameters and builds a Market. The demand-fluctuation
// noise field is seeded so the whole simulation stays deterministic.
func New(p Params, seed int64) (*Market, error) {
	if len(p.States) == 0 {
		return nil, fmt.Errorf("market: no states defined")
	}
	if len(p.Segments) == 0 {
		return nil, fmt.Errorf("market: no segments defined")
	}
	if p.CyclePeriod <= 0 {
		return nil, fmt.Errorf("market: cycle period must be positive, got %v", p.CyclePeriod)
	}

	m := &Market{
		States:        p.States,
		Segments:      make(map[LineID]*Segment, len(p.Segments)),
		BaseRates:     make(map[LineID]float64, len(p.Segments)),
		Distributions: p.Distributions,
		FlatRates:     p.FlatRates,
		CyclePeriod:   p.CyclePeriod,
		CycleAmp:      p.CycleAmp,
		FluctAmp:      p.FluctAmp,
		noise:         opensimplex.NewNormalized(seed),
	}

	for _, seg := range p.Segments {
		st, ok := p.States[seg.Line.State]
		if !ok {
			return nil, fmt.Errorf("market: segment %s references unknown state", seg.Line)
		}
		if seg.BaseRisk < 0 || seg.BaseRisk > 1 {
			return nil, fmt.Errorf("market: segment %s base risk %v outside [0,1]", seg.Line, seg.BaseRisk)
		}
		if seg.MarketSize < 0 || seg.CurrentDemand < 0 || seg.CurrentDemand > seg.MarketSize {
			return nil, fmt.Errorf("market: segment %s demand %d / size %d invalid", seg.Line, seg.CurrentDemand, seg.MarketSize)
		}
		if _, ok := m.Segments[seg.Line]; ok {
			return nil, fmt.Errorf("market: duplicate segment %s", seg.Line)
		}
		if seg.BaseDemand == 0 {
			seg.BaseDemand = seg.CurrentDemand
		}

		flat, ok := p.FlatRates[seg.Line.Kind]
		if !ok || flat <= 0 {
			return nil, fmt.Errorf("market: no flat rate for line kind %q", seg.Line.Kind)
		}

		dist, ok := p.Distributions[seg.Line]
		if !ok {
			return nil, fmt.Errorf("market: no claim distribution for %s", seg.Line)
		}
		if dist.Sigma <= 0 {
			return nil, fmt.Errorf("market: claim sigma for %s must be positive", seg.Line)
		}

		// Home lines carry a catastrophe loading on top of the flat rate;
		// auto lines price flat.
		rate := flat
		if seg.Line.Kind == LineHome {
			rate += st.CatastropheRisk * math.Exp(st.CatSeverity)
		}
		m.BaseRates[seg.Line] = rate
		m.Segments[seg.Line] = seg
		m.lines = append(m.lines, seg.Line)
	}

	sort.Slice(m.lines, func(i, j int) bool {
		return m.lines[i].String() < m.lines[j].String()
	})
	return m, nil
}

// Lines returns all line IDs in a stable sorted order. Every per-line loop
// in the turn pipeline iterates in this order so the random stream is
// reproducible.
func (m *Market) Lines() []LineID {
	return m.lines
}

// BaseRate returns the base market premium for a line.
func (m *Market) BaseRate(line LineID) float64 {
	return m.BaseRates[line]
}

// Segment returns the segment for a line, or nil if unknown.
func (m *Market) Segment(line LineID) *Segment {
	return m.Segments[line]
}

// State returns the characteristics for a geography, or nil if unknown.
func (m *Market) State(id StateID) *StateCharacteristics {
	return m.States[id]
}

// UpdateDemand advances the economic cycle one quarter and recomputes each
// segment's demand capacity: base demand compounded by long-run state growth,
// swung by the cycle and the seasonal quarter multiplier, with a smooth
// noise overlay, clamped to [0, market size].
func (m *Market) UpdateDemand(turn int) {
	m.CyclePhase += 2 * math.Pi / m.CyclePeriod
	if m.CyclePhase >= 2*math.Pi {
		m.CyclePhase -= 2 * math.Pi
	}

	economic := 1 + m.CycleAmp*math.Sin(m.CyclePhase)
	quarter := turn % 4
	years := float64(turn) / 4

	for i, line := range m.lines {
		seg := m.Segments[line]
		st := m.States[line.State]

		growth := math.Pow(1+st.GrowthRate, years)
		seasonal := seasonalDemand[line.Kind][quarter]

		// Smooth per-segment fluctuation instead of independent per-turn
		// jitter: adjacent turns see correlated demand noise.
		n := m.noise.Eval2(float64(turn)*0.37, float64(i)*10.0)
		fluct := 1 + m.FluctAmp*(2*n-1)

		demand := int(float64(seg.BaseDemand) * growth * economic * seasonal * fluct)
		if demand < 0 {
			demand = 0
		}
		if demand > seg.MarketSize {
			demand = seg.MarketSize
		}
		seg.CurrentDemand = demand
	}
}
