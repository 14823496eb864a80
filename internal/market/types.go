// Package market holds the static geography/line definitions and the dynamic
// per-segment demand state: states, lines, base rates, claim-severity
// distributions, catastrophe risk, and consumer populations.
package market

import (
	"fmt"
	"strings"
)

// StateID identifies a geography, e.g. "CA".
type StateID string

// LineKind is the insurance product type within a state.
type LineKind string

const (
	LineHome LineKind = "home"
	LineAuto LineKind = "auto"
)

// LineID identifies a (state, line-kind) market segment. It is a typed pair
// rather than a free-form "CA_home" string so unknown-key bugs surface at
// parse time instead of deep inside the turn pipeline.
type LineID struct {
	State StateID
	Kind  LineKind
}

func (l LineID) String() string {
	return fmt.Sprintf("%s_%s", l.State, l.Kind)
}

// ParseLineID parses "STATE_kind" into a LineID.
func ParseLineID(s string) (LineID, error) {
	state, kind, ok := strings.Cut(s, "_")
	if !ok || state == "" {
		return LineID{}, fmt.Errorf("malformed line id %q", s)
	}
	switch LineKind(kind) {
	case LineHome, LineAuto:
		return LineID{State: StateID(state), Kind: LineKind(kind)}, nil
	default:
		return LineID{}, fmt.Errorf("unknown line kind %q in %q", kind, s)
	}
}

// MarshalText lets LineID serve as a JSON map key.
func (l LineID) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a LineID from a JSON map key.
func (l *LineID) UnmarshalText(text []byte) error {
	parsed, err := ParseLineID(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// StateCharacteristics describes a geography. Immutable after initialization.
type StateCharacteristics struct {
	Name                 string  `json:"name"`
	CatastropheRisk      float64 `json:"catastrophe_risk"`       // Annual probability
	CatSeverity          float64 `json:"cat_severity"`           // Log-scale claim size
	MarketSizeMultiplier float64 `json:"market_size_multiplier"`
	EntryCost            float64 `json:"entry_cost"`
	GrowthRate           float64 `json:"growth_rate"` // Annual long-run demand growth
}

// ClaimDistribution holds the log-normal severity parameters for one line.
// CatMean/CatSigma apply only to home lines.
type ClaimDistribution struct {
	Mean     float64 `json:"mean"`
	Sigma    float64 `json:"sigma"`
	CatMean  float64 `json:"cat_mean,omitempty"`
	CatSigma float64 `json:"cat_sigma,omitempty"`
}

// Consumer is one policyholder-to-be in a segment's population. Created once
// at market initialization and never destroyed; Provider and Satisfaction
// mutate every turn through the choice model.
type Consumer struct {
	ID               uint64  `json:"id"`
	Line             LineID  `json:"line"`
	PriceSensitivity float64 `json:"price_sensitivity"` // > 0
	Loyalty          float64 `json:"loyalty"`           // [0, 1]
	Provider         string  `json:"provider,omitempty"`
	Satisfaction     float64 `json:"satisfaction"` // [0, 1]
}
