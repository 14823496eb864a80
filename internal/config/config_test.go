package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())

	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, "CA", s.InitialState)
	assert.Equal(t, DemandModeConsumer, s.DemandMode)
	assert.Len(t, s.Segments, 4)
	assert.Len(t, s.Distributions, 4)
	assert.Len(t, s.Assets, 5)
	assert.Len(t, s.Competitors, 3)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Scenario)
		field  string
	}{
		{"empty company name", func(s *Scenario) { s.CompanyName = "" }, "company_name"},
		{"negative cash", func(s *Scenario) { s.StartingCash = -1 }, "starting_cash"},
		{"zero cycle period", func(s *Scenario) { s.CyclePeriod = 0 }, "cycle_period"},
		{"bad demand mode", func(s *Scenario) { s.DemandMode = "psychic" }, "demand_mode"},
		{"unknown initial state", func(s *Scenario) { s.InitialState = "TX" }, "initial_state"},
		{"no segments", func(s *Scenario) { s.Segments = nil }, "segments"},
		{"no assets", func(s *Scenario) { s.Assets = nil }, "assets"},
		{"demand over size", func(s *Scenario) { s.Segments[0].CurrentDemand = s.Segments[0].MarketSize + 1 }, "segments.CA_home"},
		{"missing distribution", func(s *Scenario) { s.Distributions = s.Distributions[1:] }, "segments.CA_home"},
		{"zero sigma", func(s *Scenario) { s.Distributions[0].Sigma = 0 }, "distributions.CA_home"},
		{"duplicate asset", func(s *Scenario) { s.Assets[1].ID = s.Assets[0].ID }, "assets.SP500"},
		{"bad flat rate", func(s *Scenario) { s.FlatRates["home"] = 0 }, "flat_rates.home"},
		{"bad risk profile", func(s *Scenario) { s.Competitors[0].RiskProfile = "reckless" }, "competitors.Aggressive Insurance Co."},
		{"competitor shadows player", func(s *Scenario) { s.Competitors[0].Name = s.CompanyName }, "competitors"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.mutate(s)

			err := s.Validate()
			require.Error(t, err)

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tc.field, cerr.Field)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	const doc = `
seed: 7
company_name: Acme Mutual
initial_state: CA
starting_cash: 500000
operating_expenses: 25000
demand_mode: aggregate
cycle_period: 16
cycle_amplitude: 0.1
fluctuation_amplitude: 0.05
flat_rates:
  home: 1200
  auto: 900
states:
  CA:
    name: California
    catastrophe_risk: 0.01
    cat_severity: 13.1
    market_size_multiplier: 1.5
    entry_cost: 500000
    growth_rate: 0.01
segments:
  - line: CA_auto
    name: Auto Insurance - California
    base_risk: 0.15
    price_sensitivity: 1.5
    market_size: 7500
    current_demand: 6000
distributions:
  - line: CA_auto
    mean: 8.7
    sigma: 0.5
assets:
  - id: SP500
    name: S&P 500 ETF
    price: 450
    dividend_yield: 0.015
    volatility: 0.15
competitors:
  - name: Rival Mutual
    cash: 400000
    risk_profile: balanced
`
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), s.Seed)
	assert.Equal(t, "Acme Mutual", s.CompanyName)
	assert.Equal(t, DemandModeAggregate, s.DemandMode)
	require.Len(t, s.Segments, 1)
	assert.Equal(t, 7500, s.Segments[0].MarketSize)
	require.Len(t, s.Competitors, 1)
	assert.Equal(t, "balanced", s.Competitors[0].RiskProfile)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	// Parses but fails validation.
	path2 := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path2, []byte("company_name: ''\n"), 0o644))
	_, err = Load(path2)
	var cerr *Error
	assert.ErrorAs(t, err, &cerr)
}
