package models

import "encoding/json"

// StatRecord maps canonical metric names to values for a single player.
// Records are built fresh each ingestion cycle and never mutated; a missing
// metric is an absent key, never a zero placeholder, so consumers must apply
// their own neutral defaults.
type StatRecord map[string]float64

// Lookup returns the metric value, or the given default when the metric is
// absent from the record.
func (r StatRecord) Lookup(metric string, def float64) float64 {
	if v, ok := r[metric]; ok {
		return v
	}
	return def
}

// OutcomeEstimate is the output of one outcome model for one
// (batter, pitcher, outcome) tuple. Probability is always in [0,1] and
// Confidence in [0.05, 0.98]; recomputation with identical inputs is
// idempotent.
type OutcomeEstimate struct {
	Probability   float64 `json:"probability"`
	ExpectedValue float64 `json:"expected_value,omitempty"`
	StdDev        float64 `json:"std_dev,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
}

// MarketQuote is a single sportsbook outcome line. Quotes carry no identity
// across cycles; matching is re-run from scratch every run.
type MarketQuote struct {
	Game       string          `json:"game"`
	SourceBook string          `json:"site"`
	MarketKey  string          `json:"market_key"`
	Label      string          `json:"label"`
	Price      json.RawMessage `json:"price,omitempty"`
	RawPayload json.RawMessage `json:"raw,omitempty"`
}

// MatchedProp joins one modeled player to an optional market quote.
// MarketImpliedProb and Edge are nil, never zero, when no quote matched or
// the matched quote carried an unparseable price.
type MatchedProp struct {
	Game              string                     `json:"game"`
	Player            string                     `json:"player"`
	Team              string                     `json:"team"`
	OpponentPitcher   string                     `json:"opponent_pitcher"`
	Estimates         map[string]OutcomeEstimate `json:"model"`
	MatchedQuote      *MarketQuote               `json:"market"`
	MatchScore        int                        `json:"match_score,omitempty"`
	MarketImpliedProb *float64                   `json:"market_implied_prob"`
	Edge              *float64                   `json:"edge"`
	ModelFairPrice    *int                       `json:"model_fair_price,omitempty"`
}

// GameEdge aggregates resolved prop edges for one game.
type GameEdge struct {
	Game        string  `json:"game"`
	AvgPropEdge float64 `json:"avg_prop_edge"`
	NumProps    int     `json:"num_props"`
}

// TeamSide describes one side of a scheduled matchup.
type TeamSide struct {
	Name            string `json:"name"`
	Abbreviation    string `json:"abbr"`
	ProbablePitcher string `json:"probable_pitcher,omitempty"`
}

// Game is one entry from the schedule feed.
type Game struct {
	ID        string   `json:"game_id"`
	StartTime string   `json:"start_time_utc"`
	Venue     string   `json:"venue,omitempty"`
	Status    string   `json:"status,omitempty"`
	Home      TeamSide `json:"home"`
	Away      TeamSide `json:"away"`
}

// Label renders the game in the "AWY @ HOM" form used to group props.
func (g Game) Label() string {
	return g.Away.Abbreviation + " @ " + g.Home.Abbreviation
}
