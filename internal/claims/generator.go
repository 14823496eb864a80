// Package claims emits stochastic insurance losses: routine claims from a
// Poisson frequency process with log-normal severities, plus rare
// catastrophes on home lines that hit a swath of in-force policies at once.
package claims

import (
	"github.com/google/uuid"

	"github.com/talgya/underwriters/internal/company"
	"github.com/talgya/underwriters/internal/entropy"
	"github.com/talgya/underwriters/internal/market"
)

// CatSigma is the severity spread for catastrophe claims. Catastrophe losses
// vary less than routine ones; the event itself dominates the size.
const CatSigma = 0.5

// Generator draws claims for one company per turn. All randomness comes from
// the injected source; per-line iteration follows the market's sorted line
// order so the draw sequence is reproducible.
type Generator struct {
	Market *market.Market

	rng *entropy.Source
}

// NewGenerator builds a claims generator over the given market.
func NewGenerator(m *market.Market, rng *entropy.Source) *Generator {
	return &Generator{Market: m, rng: rng}
}

// Generate draws this turn's claims against a company's in-force policies.
// Per line: a Poisson(quarterly risk × policies) count of regular claims,
// then for home lines a catastrophe roll at one quarter of the state's
// annual catastrophe probability. A triggered catastrophe claims against a
// uniformly random 10–30% of the line's policies.
func (g *Generator) Generate(c *company.Company, turn int) []company.Claim {
	var claims []company.Claim

	for _, line := range g.Market.Lines() {
		policies := c.PoliciesSold[line]
		if policies <= 0 {
			continue
		}

		seg := g.Market.Segment(line)
		dist := g.Market.Distributions[line]

		quarterlyRisk := seg.BaseRisk / 4
		count := g.rng.Poisson(quarterlyRisk * float64(policies))
		for i := 0; i < count; i++ {
			claims = append(claims, company.Claim{
				ID:     uuid.NewString(),
				Line:   line,
				Amount: g.rng.LogNormal(dist.Mean, dist.Sigma),
				Turn:   turn,
				Kind:   company.ClaimRegular,
			})
		}

		if line.Kind != market.LineHome {
			continue
		}

		st := g.Market.State(line.State)
		if g.rng.Float() < st.CatastropheRisk/4 {
			affected := int(float64(policies) * g.rng.Uniform(0.1, 0.3))
			for i := 0; i < affected; i++ {
				claims = append(claims, company.Claim{
					ID:     uuid.NewString(),
					Line:   line,
					Amount: g.rng.LogNormal(dist.CatMean, CatSigma),
					Turn:   turn,
					Kind:   company.ClaimCatastrophe,
				})
			}
		}
	}

	return claims
}
