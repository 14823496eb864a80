// Package config defines the scenario file format: geographies, lines,
// assets, the AI roster, and engine tuning. Scenarios load from YAML;
// a compiled-in default reproduces the standard two-state game.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Error is a configuration fault: invalid static data detected at setup.
// Fatal: the engine refuses to start rather than limp along.
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

// StateConfig describes one geography.
type StateConfig struct {
	Name                 string  `yaml:"name"`
	CatastropheRisk      float64 `yaml:"catastrophe_risk"`
	CatSeverity          float64 `yaml:"cat_severity"` // log-scale severity parameter
	MarketSizeMultiplier float64 `yaml:"market_size_multiplier"`
	EntryCost            float64 `yaml:"entry_cost"`
	GrowthRate           float64 `yaml:"growth_rate"`
}

// SegmentConfig describes one (state, line) market.
type SegmentConfig struct {
	Line             string  `yaml:"line"` // "CA_home"
	Name             string  `yaml:"name"`
	BaseRisk         float64 `yaml:"base_risk"`
	PriceSensitivity float64 `yaml:"price_sensitivity"`
	MarketSize       int     `yaml:"market_size"`
	CurrentDemand    int     `yaml:"current_demand"`
}

// DistributionConfig holds log-normal claim severity parameters for a line.
type DistributionConfig struct {
	Line    string  `yaml:"line"`
	Mean    float64 `yaml:"mean"`
	Sigma   float64 `yaml:"sigma"`
	CatMean float64 `yaml:"cat_mean,omitempty"`
}

// AssetConfig describes one tradable asset.
type AssetConfig struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Price         float64 `yaml:"price"`
	DividendYield float64 `yaml:"dividend_yield"`
	Volatility    float64 `yaml:"volatility"`
}

// CompetitorConfig describes one AI company.
type CompetitorConfig struct {
	Name        string  `yaml:"name"`
	Cash        float64 `yaml:"cash"`
	RiskProfile string  `yaml:"risk_profile"`
}

// Scenario is a complete game setup.
type Scenario struct {
	Seed              int64   `yaml:"seed"`
	CompanyName       string  `yaml:"company_name"`
	InitialState      string  `yaml:"initial_state"`
	StartingCash      float64 `yaml:"starting_cash"`
	OperatingExpenses float64 `yaml:"operating_expenses"` // Per quarter, report-level
	DemandMode        string  `yaml:"demand_mode"`        // "consumer" or "aggregate"

	CyclePeriod float64 `yaml:"cycle_period"` // Quarters per economic cycle
	CycleAmp    float64 `yaml:"cycle_amplitude"`
	FluctAmp    float64 `yaml:"fluctuation_amplitude"`

	FlatRates     map[string]float64   `yaml:"flat_rates"` // By line kind
	States        map[string]StateConfig `yaml:"states"`
	Segments      []SegmentConfig      `yaml:"segments"`
	Distributions []DistributionConfig `yaml:"distributions"`
	Assets        []AssetConfig        `yaml:"assets"`
	Competitors   []CompetitorConfig   `yaml:"competitors"`
}

const (
	DemandModeConsumer  = "consumer"
	DemandModeAggregate = "aggregate"
)

// Load reads and validates a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects scenarios that would put the engine into an undefined
// state. Every check here spares the turn pipeline a guard.
func (s *Scenario) Validate() error {
	if s.CompanyName == "" {
		return &Error{"company_name", "must not be empty"}
	}
	if s.StartingCash < 0 {
		return &Error{"starting_cash", "must not be negative"}
	}
	if s.CyclePeriod <= 0 {
		return &Error{"cycle_period", "must be positive"}
	}
	switch s.DemandMode {
	case DemandModeConsumer, DemandModeAggregate:
	default:
		return &Error{"demand_mode", fmt.Sprintf("unknown mode %q", s.DemandMode)}
	}
	if _, ok := s.States[s.InitialState]; !ok {
		return &Error{"initial_state", fmt.Sprintf("unknown state %q", s.InitialState)}
	}

	for id, st := range s.States {
		if st.CatastropheRisk < 0 || st.CatastropheRisk > 1 {
			return &Error{"states." + id, "catastrophe_risk outside [0,1]"}
		}
		if st.EntryCost < 0 {
			return &Error{"states." + id, "entry_cost must not be negative"}
		}
	}

	dists := make(map[string]bool, len(s.Distributions))
	for _, d := range s.Distributions {
		if d.Sigma <= 0 {
			return &Error{"distributions." + d.Line, "sigma must be positive"}
		}
		dists[d.Line] = true
	}

	if len(s.Segments) == 0 {
		return &Error{"segments", "at least one segment is required"}
	}
	for _, seg := range s.Segments {
		field := "segments." + seg.Line
		if seg.BaseRisk < 0 || seg.BaseRisk > 1 {
			return &Error{field, "base_risk outside [0,1]"}
		}
		if seg.PriceSensitivity <= 0 {
			return &Error{field, "price_sensitivity must be positive"}
		}
		if seg.MarketSize < 0 {
			return &Error{field, "market_size must not be negative"}
		}
		if seg.CurrentDemand < 0 || seg.CurrentDemand > seg.MarketSize {
			return &Error{field, "current_demand outside [0, market_size]"}
		}
		if !dists[seg.Line] {
			return &Error{field, "no claim distribution defined"}
		}
	}

	for kind, rate := range s.FlatRates {
		if rate <= 0 {
			return &Error{"flat_rates." + kind, "must be positive"}
		}
	}

	if len(s.Assets) == 0 {
		return &Error{"assets", "at least one asset is required"}
	}
	seen := make(map[string]bool, len(s.Assets))
	for _, a := range s.Assets {
		field := "assets." + a.ID
		if a.ID == "" {
			return &Error{"assets", "asset id must not be empty"}
		}
		if seen[a.ID] {
			return &Error{field, "duplicate asset id"}
		}
		seen[a.ID] = true
		if a.Price <= 0 {
			return &Error{field, "price must be positive"}
		}
		if a.DividendYield < 0 || a.Volatility < 0 {
			return &Error{field, "yield and volatility must not be negative"}
		}
	}

	for _, c := range s.Competitors {
		if c.Name == "" || c.Name == s.CompanyName {
			return &Error{"competitors", "competitor names must be unique and non-empty"}
		}
		switch c.RiskProfile {
		case "aggressive", "balanced", "conservative":
		default:
			return &Error{"competitors." + c.Name, fmt.Sprintf("unknown risk profile %q", c.RiskProfile)}
		}
	}

	return nil
}
