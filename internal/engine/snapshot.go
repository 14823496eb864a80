package engine

import (
	"fmt"

	"github.com/talgya/underwriters/internal/ai"
	"github.com/talgya/underwriters/internal/claims"
	"github.com/talgya/underwriters/internal/company"
	"github.com/talgya/underwriters/internal/demand"
	"github.com/talgya/underwriters/internal/entropy"
	"github.com/talgya/underwriters/internal/market"
	"github.com/talgya/underwriters/internal/portfolio"
)

// Snapshot is the persisted shape of a game: everything needed to resume
// play. Two edges are deliberately lossy and reconstructed on restore:
// asset price histories restart at the current price, and consumer
// populations respawn from the seed (provider/satisfaction state resets).
// The random stream also restarts, reseeded from seed and turn.
type Snapshot struct {
	CurrentTurn       int     `json:"current_turn"`
	Seed              int64   `json:"seed"`
	DemandMode        string  `json:"demand_mode"`
	OperatingExpenses float64 `json:"operating_expenses"`

	Player      *company.Company     `json:"player_company"`
	Competitors []CompetitorSnapshot `json:"ai_competitors"`

	States        map[market.StateID]*market.StateCharacteristics `json:"states"`
	Segments      []*market.Segment                               `json:"market_segments"`
	BaseRates     map[market.LineID]float64                       `json:"base_market_rates"`
	Distributions map[market.LineID]market.ClaimDistribution      `json:"claim_distributions"`
	FlatRates     map[market.LineKind]float64                     `json:"flat_rates"`
	Unlocked      map[market.StateID]bool                         `json:"unlocked_states"`

	Assets []*portfolio.Asset `json:"investment_assets"`

	CyclePhase  float64 `json:"cycle_phase"`
	CyclePeriod float64 `json:"cycle_period"`
	CycleAmp    float64 `json:"cycle_amplitude"`
	FluctAmp    float64 `json:"fluctuation_amplitude"`

	Events []Event `json:"events,omitempty"`
}

// CompetitorSnapshot is a company plus the risk profile its strategy derives
// from. Profiles serialize flat alongside the company fields, with no
// base/derived asymmetry.
type CompetitorSnapshot struct {
	*company.Company
	RiskProfile string `json:"risk_profile"`
}

// Snapshot captures the current game state for persistence.
func (g *Game) Snapshot() *Snapshot {
	segments := make([]*market.Segment, 0, len(g.Market.Lines()))
	for _, line := range g.Market.Lines() {
		seg := g.Market.Segment(line)
		segments = append(segments, &market.Segment{
			Line:             seg.Line,
			Name:             seg.Name,
			BaseRisk:         seg.BaseRisk,
			PriceSensitivity: seg.PriceSensitivity,
			MarketSize:       seg.MarketSize,
			CurrentDemand:    seg.CurrentDemand,
			BaseDemand:       seg.BaseDemand,
		})
	}

	assets := make([]*portfolio.Asset, 0, len(g.Portfolio.AssetIDs()))
	for _, id := range g.Portfolio.AssetIDs() {
		a := g.Portfolio.Asset(id)
		assets = append(assets, &portfolio.Asset{
			ID:            a.ID,
			Name:          a.Name,
			CurrentPrice:  a.CurrentPrice,
			DividendYield: a.DividendYield,
			Volatility:    a.Volatility,
		})
	}

	competitors := make([]CompetitorSnapshot, 0, len(g.Competitors))
	for _, c := range g.Competitors {
		competitors = append(competitors, CompetitorSnapshot{
			Company:     c.Company,
			RiskProfile: string(c.Strategy.Profile),
		})
	}

	return &Snapshot{
		CurrentTurn:       g.Turn,
		Seed:              g.Seed,
		DemandMode:        g.DemandMode,
		OperatingExpenses: g.OperatingExpenses,
		Player:            g.Player,
		Competitors:       competitors,
		States:            g.Market.States,
		Segments:          segments,
		BaseRates:         g.Market.BaseRates,
		Distributions:     g.Market.Distributions,
		FlatRates:         g.Market.FlatRates,
		Unlocked:          g.Unlocked,
		Assets:            assets,
		CyclePhase:        g.Market.CyclePhase,
		CyclePeriod:       g.Market.CyclePeriod,
		CycleAmp:          g.Market.CycleAmp,
		FluctAmp:          g.Market.FluctAmp,
		Events:            g.Events,
	}
}

// Restore rebuilds a game from a snapshot. Base rates are recomputed from
// the flat-rate table and state characteristics; the same inputs always
// produce the same table, so the stored rates serve as a cross-check only.
func Restore(s *Snapshot) (*Game, error) {
	mkt, err := market.New(market.Params{
		States:        s.States,
		Segments:      s.Segments,
		Distributions: s.Distributions,
		FlatRates:     s.FlatRates,
		CyclePeriod:   s.CyclePeriod,
		CycleAmp:      s.CycleAmp,
		FluctAmp:      s.FluctAmp,
	}, s.Seed)
	if err != nil {
		return nil, fmt.Errorf("restore market: %w", err)
	}
	mkt.CyclePhase = s.CyclePhase

	// The stream cannot resume mid-sequence; reseed from seed and turn so
	// resumed games stay deterministic without replaying history.
	rng := entropy.NewSource(s.Seed + int64(s.CurrentTurn)*1009)

	if s.DemandMode == "consumer" {
		spawnConsumers(mkt, entropy.NewSource(s.Seed))
	}

	pf, err := portfolio.NewEngine(s.Assets)
	if err != nil {
		return nil, fmt.Errorf("restore portfolio: %w", err)
	}

	if s.Player == nil {
		return nil, fmt.Errorf("restore: snapshot has no player company")
	}
	normalizeCompany(s.Player)

	competitors := make([]*ai.Competitor, 0, len(s.Competitors))
	for _, cs := range s.Competitors {
		strategy, err := ai.StrategyFor(ai.RiskProfile(cs.RiskProfile))
		if err != nil {
			return nil, fmt.Errorf("restore competitor %s: %w", cs.Company.Name, err)
		}
		normalizeCompany(cs.Company)
		competitors = append(competitors, &ai.Competitor{Company: cs.Company, Strategy: strategy})
	}

	g := &Game{
		Turn:              s.CurrentTurn,
		Player:            s.Player,
		Competitors:       competitors,
		Market:            mkt,
		Portfolio:         pf,
		Unlocked:          s.Unlocked,
		Events:            s.Events,
		Seed:              s.Seed,
		OperatingExpenses: s.OperatingExpenses,
		DemandMode:        s.DemandMode,
		rng:               rng,
	}
	g.gen = claims.NewGenerator(mkt, rng)
	g.alloc = demand.NewAllocator(mkt, rng)
	return g, nil
}

// normalizeCompany replaces nil maps left by deserialization of empty books.
func normalizeCompany(c *company.Company) {
	if c.Investments == nil {
		c.Investments = make(map[string]int)
	}
	if c.PoliciesSold == nil {
		c.PoliciesSold = make(map[market.LineID]int)
	}
	if c.PremiumRates == nil {
		c.PremiumRates = make(map[market.LineID]float64)
	}
	if c.AdvertisingBudget == nil {
		c.AdvertisingBudget = make(map[market.LineID]float64)
	}
}
