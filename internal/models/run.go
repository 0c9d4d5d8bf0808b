package models

import "time"

// Pipeline stage names used in RunResult freshness flags and snapshot files.
const (
	StageSchedule = "schedule"
	StageHitters  = "hitters"
	StagePitchers = "pitchers"
	StageOdds     = "odds"
)

// RunResult summarizes one pipeline cycle for the caller. A degraded run
// (one or more stages served from a prior snapshot) still produces outputs;
// Freshness tells downstream consumers which stages to trust.
type RunResult struct {
	RunID        string          `json:"run_id"`
	Season       int             `json:"season"`
	GeneratedAt  time.Time       `json:"generated_at"`
	GameCount    int             `json:"game_count"`
	PropCount    int             `json:"prop_count"`
	MatchedCount int             `json:"matched_count"`
	PathsWritten []string        `json:"paths_written"`
	Freshness    map[string]bool `json:"freshness"`
	Degraded     bool            `json:"degraded"`
}

// GamesSnapshot is the persisted schedule output.
type GamesSnapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Games       []Game    `json:"games"`
}

// OddsSnapshot is the persisted market quote output.
type OddsSnapshot struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Props       []MarketQuote `json:"props"`
}

// PropsSnapshot is the persisted modeled/matched prop output. It holds both
// batter records and probable-starter strikeout records, so per-game record
// counts exceed the number of modeled batters.
type PropsSnapshot struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Props       []MatchedProp `json:"props"`
}

// EdgesSnapshot is the persisted per-game aggregate output.
type EdgesSnapshot struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Edges       []GameEdge `json:"edges"`
}

// StatCache is the persisted per-season stat record cache for one
// leaderboard (hitters or pitchers), keyed by normalized player name.
type StatCache struct {
	Updated time.Time             `json:"updated"`
	Players map[string]StatRecord `json:"players"`
}
