package config

import "math"

// Default returns the standard two-state scenario: California and Florida,
// home and auto lines, five ETFs, and three AI competitors covering each
// risk profile.
func Default() *Scenario {
	states := map[string]StateConfig{
		"CA": {
			Name:                 "California",
			CatastropheRisk:      0.01, // Earthquake
			CatSeverity:          math.Log(500000),
			MarketSizeMultiplier: 1.5,
			EntryCost:            500000,
			GrowthRate:           0.01,
		},
		"FL": {
			Name:                 "Florida",
			CatastropheRisk:      0.05, // Hurricane
			CatSeverity:          math.Log(250000),
			MarketSizeMultiplier: 1.0,
			EntryCost:            300000,
			GrowthRate:           0.02,
		},
	}

	var segments []SegmentConfig
	var distributions []DistributionConfig
	for _, id := range []string{"CA", "FL"} {
		st := states[id]
		segments = append(segments,
			SegmentConfig{
				Line:             id + "_home",
				Name:             "Home Insurance - " + st.Name,
				BaseRisk:         0.05,
				PriceSensitivity: 1.2,
				MarketSize:       int(2000 * st.MarketSizeMultiplier),
				CurrentDemand:    int(1500 * st.MarketSizeMultiplier),
			},
			SegmentConfig{
				Line:             id + "_auto",
				Name:             "Auto Insurance - " + st.Name,
				BaseRisk:         0.15,
				PriceSensitivity: 1.5,
				MarketSize:       int(5000 * st.MarketSizeMultiplier),
				CurrentDemand:    int(4000 * st.MarketSizeMultiplier),
			},
		)
		distributions = append(distributions,
			DistributionConfig{
				Line:    id + "_home",
				Mean:    math.Log(24000),
				Sigma:   0.7,
				CatMean: st.CatSeverity,
			},
			DistributionConfig{
				Line:  id + "_auto",
				Mean:  math.Log(6000),
				Sigma: 0.5,
			},
		)
	}

	return &Scenario{
		Seed:              42,
		CompanyName:       "Player Insurance Co.",
		InitialState:      "CA",
		StartingCash:      1000000,
		OperatingExpenses: 50000,
		DemandMode:        DemandModeConsumer,
		CyclePeriod:       20,
		CycleAmp:          0.15,
		FluctAmp:          0.05,
		FlatRates: map[string]float64{
			"home": 1200,
			"auto": 900,
		},
		States:        states,
		Segments:      segments,
		Distributions: distributions,
		Assets: []AssetConfig{
			{ID: "SP500", Name: "S&P 500 ETF", Price: 450, DividendYield: 0.015, Volatility: 0.15},
			{ID: "CORP_BONDS", Name: "Corporate Bond ETF", Price: 100, DividendYield: 0.045, Volatility: 0.08},
			{ID: "LONG_TREASURY", Name: "Long-Term Treasury ETF", Price: 90, DividendYield: 0.035, Volatility: 0.12},
			{ID: "SHORT_TREASURY", Name: "Short-Term Treasury ETF", Price: 50, DividendYield: 0.02, Volatility: 0.03},
			{ID: "REIT", Name: "Real Estate Investment Trust ETF", Price: 80, DividendYield: 0.06, Volatility: 0.20},
		},
		Competitors: []CompetitorConfig{
			{Name: "Aggressive Insurance Co.", Cash: 1000000, RiskProfile: "aggressive"},
			{Name: "Balanced Insurance Co.", Cash: 1000000, RiskProfile: "balanced"},
			{Name: "Conservative Insurance Co.", Cash: 1000000, RiskProfile: "conservative"},
		},
	}
}
