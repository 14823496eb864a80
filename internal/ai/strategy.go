// Package ai implements the rule-based competitor companies: pricing,
// advertising, and investment decisions recomputed every turn from the
// current market and the competitor's own books. Decisions are pure
// functions of state: no dice, no memory beyond the ledger.
package ai

import (
	"fmt"
)

// RiskProfile selects a competitor's fixed strategy parameters. Set at
// creation, never mutated.
type RiskProfile string

const (
	ProfileAggressive   RiskProfile = "aggressive"
	ProfileBalanced     RiskProfile = "balanced"
	ProfileConservative RiskProfile = "conservative"
)

// Strategy carries the parameters derived once from a risk profile.
type Strategy struct {
	Profile          RiskProfile `json:"risk_profile"`
	TargetShare      float64     `json:"target_market_share"`
	PriceSensitivity float64     `json:"price_sensitivity"`
	AdvertisingRatio float64     `json:"advertising_ratio"` // Fraction of revenue
	InvestRatio      float64     `json:"invest_ratio"`      // Fraction of cash put to work
}

// StrategyFor maps a risk profile to its strategy parameters.
func StrategyFor(profile RiskProfile) (Strategy, error) {
	switch profile {
	case ProfileAggressive:
		return Strategy{
			Profile:          profile,
			TargetShare:      0.40,
			PriceSensitivity: 1.5,
			AdvertisingRatio: 0.15,
			InvestRatio:      0.80,
		}, nil
	case ProfileBalanced:
		return Strategy{
			Profile:          profile,
			TargetShare:      0.30,
			PriceSensitivity: 1.0,
			AdvertisingRatio: 0.10,
			InvestRatio:      0.60,
		}, nil
	case ProfileConservative:
		return Strategy{
			Profile:          profile,
			TargetShare:      0.20,
			PriceSensitivity: 0.8,
			AdvertisingRatio: 0.05,
			InvestRatio:      0.40,
		}, nil
	default:
		return Strategy{}, fmt.Errorf("unknown risk profile %q", profile)
	}
}
