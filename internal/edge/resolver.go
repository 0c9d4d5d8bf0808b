// Package edge joins modeled players to market quotes and scores the
// difference between modeled and market-implied probabilities.
package edge

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mwhitman/propedge/internal/models"
	"github.com/mwhitman/propedge/internal/names"
	"github.com/mwhitman/propedge/internal/odds"
	"github.com/mwhitman/propedge/internal/props"
)

// DefaultMinScore is the fuzzy-match floor for market labels.
const DefaultMinScore = 70

// Resolver matches players to quotes. It holds no cross-cycle state and can
// be re-run from empty on every cycle.
type Resolver struct {
	minScore int
	logger   *logrus.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(minScore int, logger *logrus.Logger) *Resolver {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Resolver{minScore: minScore, logger: logger}
}

// Resolve fills the market side of a MatchedProp in place: the matched quote
// (fuzzy first, substring fallback second), the parsed implied probability,
// and the edge. Edge = model probability - market implied probability, so
// positive means the model is more bullish than the market; it stays nil
// unless both a home-run estimate and a parseable price exist.
func (r *Resolver) Resolve(prop *models.MatchedProp, quotes []models.MarketQuote) {
	quote, score := r.findQuote(prop.Player, quotes)
	if quote == nil {
		return
	}
	prop.MatchedQuote = quote
	prop.MatchScore = score

	implied, ok := odds.ImpliedProbability(quote.Price)
	if !ok {
		// Matched but unpriceable: a valid business outcome, not an error.
		return
	}
	prop.MarketImpliedProb = &implied

	if hr, exists := prop.Estimates[props.OutcomeHomeRun]; exists {
		e := hr.Probability - implied
		prop.Edge = &e
		if fair, ok := odds.ProbabilityToAmerican(hr.Probability); ok {
			prop.ModelFairPrice = &fair
		}
	}
}

// findQuote returns the best quote for a player, or nil. Threshold crossing
// is a hard boundary: no quote below minScore is ever returned from the
// fuzzy pass. The fallback accepts a quote whose label or raw payload
// contains the normalized player name verbatim.
func (r *Resolver) findQuote(playerName string, quotes []models.MarketQuote) (*models.MarketQuote, int) {
	if playerName == "" || len(quotes) == 0 {
		return nil, 0
	}
	query := names.Normalize(playerName)

	labels := make([]string, len(quotes))
	for i, q := range quotes {
		labels[i] = names.Normalize(q.Label)
	}

	if match, score, ok := names.BestMatch(query, labels, r.minScore); ok {
		for i, label := range labels {
			if label == match {
				return &quotes[i], score
			}
		}
	}

	for i, q := range quotes {
		label := strings.ToLower(q.Label)
		raw := strings.ToLower(string(q.RawPayload))
		if strings.Contains(label, query) || strings.Contains(raw, query) {
			r.logger.Debugf("Substring fallback matched %q to quote %q", playerName, q.Label)
			return &quotes[i], 0
		}
	}
	return nil, 0
}

// AggregateGameEdges computes the per-game mean edge and resolved-prop count
// across props that carry a non-nil edge. Output order follows first
// appearance in the input.
func AggregateGameEdges(resolved []models.MatchedProp) []models.GameEdge {
	type acc struct {
		sum   float64
		count int
	}
	sums := make(map[string]*acc)
	var order []string
	for _, p := range resolved {
		if p.Edge == nil {
			continue
		}
		a, ok := sums[p.Game]
		if !ok {
			a = &acc{}
			sums[p.Game] = a
			order = append(order, p.Game)
		}
		a.sum += *p.Edge
		a.count++
	}

	edges := make([]models.GameEdge, 0, len(order))
	for _, game := range order {
		a := sums[game]
		edges = append(edges, models.GameEdge{
			Game:        game,
			AvgPropEdge: a.sum / float64(a.count),
			NumProps:    a.count,
		})
	}
	return edges
}
