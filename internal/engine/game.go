// Package engine owns the complete game state and sequences the turn
// pipeline: AI decisions, demand allocation, claims, portfolio returns,
// financial reporting. It is the only entry point the CLI, API, and
// persistence layers may call.
package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/talgya/underwriters/internal/ai"
	"github.com/talgya/underwriters/internal/claims"
	"github.com/talgya/underwriters/internal/company"
	"github.com/talgya/underwriters/internal/config"
	"github.com/talgya/underwriters/internal/demand"
	"github.com/talgya/underwriters/internal/entropy"
	"github.com/talgya/underwriters/internal/market"
	"github.com/talgya/underwriters/internal/portfolio"
)

// Operation errors. All are synchronous rejections that leave state
// unchanged; nothing in the turn pipeline itself can fail.
var (
	ErrUnknownLine     = errors.New("unknown line")
	ErrUnknownState    = errors.New("unknown state")
	ErrAlreadyUnlocked = errors.New("state already unlocked")
	ErrInvalidAmount   = errors.New("amount must not be negative")
	ErrInvalidRate     = errors.New("premium rate must be positive")
)

// Event is a notable occurrence worth surfacing to the player.
type Event struct {
	Turn        int    `json:"turn"`
	Description string `json:"description"`
	Category    string `json:"category"` // "catastrophe", "market", "expansion"
}

// maxEvents caps the in-memory event log.
const maxEvents = 1000

// Game is the root of ownership: every entity in the simulation is reachable
// only through it.
type Game struct {
	Turn        int
	Player      *company.Company
	Competitors []*ai.Competitor
	Market      *market.Market
	Portfolio   *portfolio.Engine
	Unlocked    map[market.StateID]bool
	Events      []Event

	Seed              int64
	OperatingExpenses float64
	DemandMode        string

	rng   *entropy.Source
	gen   *claims.Generator
	alloc *demand.Allocator
}

// New builds a game from a validated scenario. All stochastic state descends
// from the scenario seed.
func New(s *config.Scenario) (*Game, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	rng := entropy.NewSource(s.Seed)

	mkt, err := buildMarket(s)
	if err != nil {
		return nil, err
	}

	if s.DemandMode == config.DemandModeConsumer {
		spawnConsumers(mkt, rng)
	}

	assets := make([]*portfolio.Asset, 0, len(s.Assets))
	for _, a := range s.Assets {
		assets = append(assets, &portfolio.Asset{
			ID:            a.ID,
			Name:          a.Name,
			CurrentPrice:  a.Price,
			DividendYield: a.DividendYield,
			Volatility:    a.Volatility,
		})
	}
	pf, err := portfolio.NewEngine(assets)
	if err != nil {
		return nil, err
	}

	player := company.New(s.CompanyName, s.StartingCash)
	for line, rate := range mkt.BaseRates {
		player.PremiumRates[line] = rate
		player.AdvertisingBudget[line] = 0
	}

	competitors := make([]*ai.Competitor, 0, len(s.Competitors))
	for _, cc := range s.Competitors {
		comp, err := ai.NewCompetitor(cc.Name, cc.Cash, ai.RiskProfile(cc.RiskProfile))
		if err != nil {
			return nil, err
		}
		competitors = append(competitors, comp)
	}

	unlocked := make(map[market.StateID]bool, len(mkt.States))
	for id := range mkt.States {
		unlocked[id] = false
	}
	unlocked[market.StateID(s.InitialState)] = true

	g := &Game{
		Player:            player,
		Competitors:       competitors,
		Market:            mkt,
		Portfolio:         pf,
		Unlocked:          unlocked,
		Seed:              s.Seed,
		OperatingExpenses: s.OperatingExpenses,
		DemandMode:        s.DemandMode,
		rng:               rng,
	}
	g.gen = claims.NewGenerator(mkt, rng)
	g.alloc = demand.NewAllocator(mkt, rng)
	return g, nil
}

func buildMarket(s *config.Scenario) (*market.Market, error) {
	states := make(map[market.StateID]*market.StateCharacteristics, len(s.States))
	for id, st := range s.States {
		states[market.StateID(id)] = &market.StateCharacteristics{
			Name:                 st.Name,
			CatastropheRisk:      st.CatastropheRisk,
			CatSeverity:          st.CatSeverity,
			MarketSizeMultiplier: st.MarketSizeMultiplier,
			EntryCost:            st.EntryCost,
			GrowthRate:           st.GrowthRate,
		}
	}

	segments := make([]*market.Segment, 0, len(s.Segments))
	for _, sc := range s.Segments {
		line, err := market.ParseLineID(sc.Line)
		if err != nil {
			return nil, &config.Error{Field: "segments." + sc.Line, Msg: err.Error()}
		}
		segments = append(segments, &market.Segment{
			Line:             line,
			Name:             sc.Name,
			BaseRisk:         sc.BaseRisk,
			PriceSensitivity: sc.PriceSensitivity,
			MarketSize:       sc.MarketSize,
			CurrentDemand:    sc.CurrentDemand,
		})
	}

	dists := make(map[market.LineID]market.ClaimDistribution, len(s.Distributions))
	for _, dc := range s.Distributions {
		line, err := market.ParseLineID(dc.Line)
		if err != nil {
			return nil, &config.Error{Field: "distributions." + dc.Line, Msg: err.Error()}
		}
		dists[line] = market.ClaimDistribution{
			Mean:     dc.Mean,
			Sigma:    dc.Sigma,
			CatMean:  dc.CatMean,
			CatSigma: claims.CatSigma,
		}
	}

	flat := make(map[market.LineKind]float64, len(s.FlatRates))
	for kind, rate := range s.FlatRates {
		flat[market.LineKind(kind)] = rate
	}

	return market.New(market.Params{
		States:        states,
		Segments:      segments,
		Distributions: dists,
		FlatRates:     flat,
		CyclePeriod:   s.CyclePeriod,
		CycleAmp:      s.CycleAmp,
		FluctAmp:      s.FluctAmp,
	}, s.Seed)
}

// spawnConsumers populates every segment, in the market's sorted line order
// so the population is identical for a given seed.
func spawnConsumers(m *market.Market, rng *entropy.Source) {
	var nextID uint64 = 1
	for _, line := range m.Lines() {
		nextID = m.Segment(line).SpawnConsumers(rng, nextID)
	}
}

// Companies returns every participant with the player first, then the AI
// roster in creation order. This ordering is the tie-break order for demand
// allocation and fixes the random-draw sequence of the turn pipeline.
func (g *Game) Companies() []*company.Company {
	all := make([]*company.Company, 0, 1+len(g.Competitors))
	all = append(all, g.Player)
	for _, c := range g.Competitors {
		all = append(all, c.Company)
	}
	return all
}

// Company looks up a participant by name.
func (g *Game) Company(name string) *company.Company {
	for _, c := range g.Companies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// UnlockedStates returns the unlocked geography IDs in sorted order.
func (g *Game) UnlockedStates() []market.StateID {
	var ids []market.StateID
	for id, ok := range g.Unlocked {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (g *Game) logEvent(category, format string, args ...any) {
	g.Events = append(g.Events, Event{
		Turn:        g.Turn,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
	if len(g.Events) > maxEvents {
		g.Events = g.Events[len(g.Events)-maxEvents:]
	}
}
