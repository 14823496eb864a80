package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/talgya/underwriters/internal/engine"
	"github.com/talgya/underwriters/internal/market"
	"github.com/talgya/underwriters/internal/portfolio"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.Game
	writeJSON(w, http.StatusOK, map[string]any{
		"turn":            g.Turn,
		"company":         g.Player.Name,
		"cash":            g.Player.Cash,
		"policies":        g.Player.TotalPolicies(),
		"holdings_value":  g.Portfolio.HoldingsValue(g.Player),
		"unlocked_states": g.UnlockedStates(),
	})
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.Game
	type segmentView struct {
		Line          string  `json:"line"`
		Name          string  `json:"name"`
		BaseRate      float64 `json:"base_rate"`
		MarketSize    int     `json:"market_size"`
		CurrentDemand int     `json:"current_demand"`
		PlayerRate    float64 `json:"player_rate"`
		Unlocked      bool    `json:"unlocked"`
	}

	var segments []segmentView
	for _, line := range g.Market.Lines() {
		seg := g.Market.Segment(line)
		segments = append(segments, segmentView{
			Line:          line.String(),
			Name:          seg.Name,
			BaseRate:      g.Market.BaseRate(line),
			MarketSize:    seg.MarketSize,
			CurrentDemand: seg.CurrentDemand,
			PlayerRate:    g.Player.Rate(line, g.Market.BaseRate(line)),
			Unlocked:      g.Unlocked[line.State],
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"segments": segments})
}

func (s *Server) handleEconomy(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Game.Indicators())
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.Game
	type holdingView struct {
		Asset         string  `json:"asset"`
		Name          string  `json:"name"`
		Price         float64 `json:"price"`
		DividendYield float64 `json:"dividend_yield"`
		Shares        int     `json:"shares"`
		Value         float64 `json:"value"`
	}

	var holdings []holdingView
	for _, id := range g.Portfolio.AssetIDs() {
		a := g.Portfolio.Asset(id)
		shares := g.Player.Investments[id]
		holdings = append(holdings, holdingView{
			Asset:         id,
			Name:          a.Name,
			Price:         a.CurrentPrice,
			DividendYield: a.DividendYield,
			Shares:        shares,
			Value:         a.CurrentPrice * float64(shares),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cash":     g.Player.Cash,
		"holdings": holdings,
	})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := make([]map[string]float64, 0, len(s.Game.Player.Reports))
	for _, rep := range s.Game.Player.Reports {
		reports = append(reports, rep.Summary())
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"events": s.Game.Events})
}

func (s *Server) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := market.ParseLineID(mux.Vars(r)["line"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	infos, err := s.Game.CompetitorInfoForLine(line)
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"line": line.String(), "companies": infos})
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.Game.EndTurn()
	if s.DB != nil {
		if err := s.DB.SaveGame(s.Game); err != nil {
			http.Error(w, "turn resolved but save failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusOK, report.Summary())
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Asset  string `json:"asset"`
		Shares int    `json:"shares"`
		Side   string `json:"side"` // "buy" or "sell"
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch req.Side {
	case "buy":
		err = s.Game.BuyAsset(req.Asset, req.Shares)
	case "sell":
		err = s.Game.SellAsset(req.Asset, req.Shares)
	default:
		http.Error(w, "side must be buy or sell", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cash":   s.Game.Player.Cash,
		"shares": s.Game.Player.Investments[req.Asset],
	})
}

func (s *Server) handlePremium(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Line string  `json:"line"`
		Rate float64 `json:"rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	line, err := market.ParseLineID(req.Line)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Game.SetPremiumRate(line, req.Rate); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"line": line.String(), "rate": req.Rate})
}

func (s *Server) handleAdvertising(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Line   string  `json:"line"`
		Budget float64 `json:"budget"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	line, err := market.ParseLineID(req.Line)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Game.SetAdvertisingBudget(line, req.Budget); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"line": line.String(), "budget": req.Budget})
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Game.UnlockState(market.StateID(req.State)); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state": req.State,
		"cash":  s.Game.Player.Cash,
	})
}

// writeOpError maps engine rejections to HTTP statuses.
func (s *Server) writeOpError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, portfolio.ErrUnknownAsset),
		errors.Is(err, engine.ErrUnknownLine),
		errors.Is(err, engine.ErrUnknownState):
		status = http.StatusNotFound
	case errors.Is(err, portfolio.ErrInsufficientFunds),
		errors.Is(err, portfolio.ErrInsufficientShares):
		status = http.StatusPaymentRequired
	case errors.Is(err, engine.ErrAlreadyUnlocked):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}
