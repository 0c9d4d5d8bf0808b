package edge

import (
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitman/propedge/internal/models"
	"github.com/mwhitman/propedge/internal/props"
)

func newTestResolver() *Resolver {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewResolver(70, logger)
}

func propFor(player string, hrProb float64) *models.MatchedProp {
	return &models.MatchedProp{
		Player: player,
		Game:   "NYY @ BOS",
		Estimates: map[string]models.OutcomeEstimate{
			props.OutcomeHomeRun: {Probability: hrProb, Confidence: 0.5},
		},
	}
}

func TestResolveComputesEdge(t *testing.T) {
	quotes := []models.MarketQuote{
		{Label: "Aaron Judge", Price: json.RawMessage(`-150`), SourceBook: "TestBook"},
		{Label: "Juan Soto", Price: json.RawMessage(`+200`), SourceBook: "TestBook"},
	}

	prop := propFor("Aaron Judge", 0.62)
	newTestResolver().Resolve(prop, quotes)

	require.NotNil(t, prop.MatchedQuote)
	assert.Equal(t, "Aaron Judge", prop.MatchedQuote.Label)
	require.NotNil(t, prop.MarketImpliedProb)
	assert.InDelta(t, 0.6, *prop.MarketImpliedProb, 1e-9)
	require.NotNil(t, prop.Edge)
	assert.InDelta(t, 0.02, *prop.Edge, 1e-9)
	require.NotNil(t, prop.ModelFairPrice)
	assert.Equal(t, -163, *prop.ModelFairPrice)
}

func TestResolveTokenOrderInsensitive(t *testing.T) {
	quotes := []models.MarketQuote{
		{Label: "Ohtani Shohei", Price: json.RawMessage(`+120`)},
	}

	prop := propFor("Shohei Ohtani", 0.5)
	newTestResolver().Resolve(prop, quotes)

	require.NotNil(t, prop.MatchedQuote)
	assert.GreaterOrEqual(t, prop.MatchScore, 70)
}

func TestResolveNoMatchLeavesNils(t *testing.T) {
	quotes := []models.MarketQuote{
		{Label: "Somebody Unrelated", Price: json.RawMessage(`-110`)},
	}

	prop := propFor("Bobby Witt", 0.4)
	newTestResolver().Resolve(prop, quotes)

	assert.Nil(t, prop.MatchedQuote)
	assert.Nil(t, prop.MarketImpliedProb)
	assert.Nil(t, prop.Edge)
}

func TestResolveSubstringFallbackOnRawPayload(t *testing.T) {
	quotes := []models.MarketQuote{
		{
			Label:      "HR leaders market",
			Price:      json.RawMessage(`"+350"`),
			RawPayload: json.RawMessage(`{"name":"bobby witt","point":0.5}`),
		},
	}

	prop := propFor("Bobby Witt Jr.", 0.3)
	newTestResolver().Resolve(prop, quotes)

	require.NotNil(t, prop.MatchedQuote)
	require.NotNil(t, prop.Edge)
}

func TestResolveUnparseablePriceKeepsEdgeNil(t *testing.T) {
	quotes := []models.MarketQuote{
		{Label: "Aaron Judge", Price: json.RawMessage(`"n/a"`)},
	}

	prop := propFor("Aaron Judge", 0.62)
	newTestResolver().Resolve(prop, quotes)

	require.NotNil(t, prop.MatchedQuote)
	assert.Nil(t, prop.MarketImpliedProb)
	assert.Nil(t, prop.Edge)
}

func TestAggregateGameEdges(t *testing.T) {
	e1, e2, e3 := 0.05, -0.01, 0.10
	resolved := []models.MatchedProp{
		{Game: "NYY @ BOS", Edge: &e1},
		{Game: "NYY @ BOS", Edge: &e2},
		{Game: "LAD @ SD", Edge: &e3},
		{Game: "LAD @ SD"}, // unresolved, excluded from the aggregate
	}

	edges := AggregateGameEdges(resolved)
	require.Len(t, edges, 2)

	assert.Equal(t, "NYY @ BOS", edges[0].Game)
	assert.InDelta(t, 0.02, edges[0].AvgPropEdge, 1e-9)
	assert.Equal(t, 2, edges[0].NumProps)

	assert.Equal(t, "LAD @ SD", edges[1].Game)
	assert.InDelta(t, 0.10, edges[1].AvgPropEdge, 1e-9)
	assert.Equal(t, 1, edges[1].NumProps)
}

func TestAggregateGameEdgesEmpty(t *testing.T) {
	assert.Empty(t, AggregateGameEdges(nil))
}
