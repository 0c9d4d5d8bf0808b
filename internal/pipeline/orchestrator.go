// Package pipeline ties the feeds, models, and matching together into the
// daily run cycle.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mwhitman/propedge/internal/edge"
	"github.com/mwhitman/propedge/internal/models"
	"github.com/mwhitman/propedge/internal/names"
	"github.com/mwhitman/propedge/internal/park"
	"github.com/mwhitman/propedge/internal/props"
	"github.com/mwhitman/propedge/internal/snapshot"
	"github.com/mwhitman/propedge/internal/stats"
	"github.com/mwhitman/propedge/pkg/config"
)

// ScheduleProvider supplies today's games.
type ScheduleProvider interface {
	GetSchedule(ctx context.Context) ([]models.Game, error)
}

// StatsProvider supplies season leaderboard rows.
type StatsProvider interface {
	HitterLeaderboard(ctx context.Context, season int) ([]stats.RawRow, error)
	PitcherLeaderboard(ctx context.Context, season int) ([]stats.RawRow, error)
}

// OddsProvider supplies current player prop quotes.
type OddsProvider interface {
	PlayerProps(ctx context.Context) ([]models.MarketQuote, error)
}

// WeatherProvider supplies game-time conditions. It may be nil.
type WeatherProvider interface {
	Conditions(ctx context.Context, city string) (*park.Conditions, error)
}

// Orchestrator runs one full cycle: fetch, model, match, persist. Each fetch
// stage that fails falls back to the prior persisted snapshot and marks the
// run degraded; modeling and matching always run on whatever data survived.
type Orchestrator struct {
	schedule ScheduleProvider
	savant   StatsProvider
	odds     OddsProvider
	weather  WeatherProvider
	store    *snapshot.Store
	mapper   *stats.Mapper
	resolver *edge.Resolver
	logger   *logrus.Logger

	estInnings       float64
	candidateBatters int
}

// NewOrchestrator creates a new Orchestrator. weather may be nil.
func NewOrchestrator(
	schedule ScheduleProvider,
	savant StatsProvider,
	odds OddsProvider,
	weather WeatherProvider,
	store *snapshot.Store,
	cfg *config.Config,
	logger *logrus.Logger,
) *Orchestrator {
	return &Orchestrator{
		schedule:         schedule,
		savant:           savant,
		odds:             odds,
		weather:          weather,
		store:            store,
		mapper:           stats.NewMapper(logger),
		resolver:         edge.NewResolver(cfg.MatchMinScore, logger),
		logger:           logger,
		estInnings:       cfg.EstPitcherInnings,
		candidateBatters: cfg.CandidateBatters,
	}
}

// RunCycle executes one pipeline cycle for the given season. It always
// returns a result when any usable schedule exists; an empty slate is a
// normal zero-prop run that still writes snapshots. Only a schedule fetch
// failure with no cached snapshot to fall back on aborts the cycle.
func (o *Orchestrator) RunCycle(ctx context.Context, seasonYear int) (*models.RunResult, error) {
	runID := uuid.New().String()
	o.logger.Infof("Starting pipeline cycle %s for season %d", runID, seasonYear)

	result := &models.RunResult{
		RunID:       runID,
		Season:      seasonYear,
		GeneratedAt: time.Now().UTC(),
		Freshness: map[string]bool{
			models.StageSchedule: true,
			models.StageHitters:  true,
			models.StagePitchers: true,
			models.StageOdds:     true,
		},
	}

	games, ok := o.fetchSchedule(ctx, result)
	if !ok {
		return nil, fmt.Errorf("schedule unavailable: fetch failed and no cached snapshot exists")
	}
	result.GameCount = len(games)

	hitters := o.fetchLeaderboard(ctx, result, models.StageHitters, seasonYear)
	pitchers := o.fetchLeaderboard(ctx, result, models.StagePitchers, seasonYear)
	quotes := o.fetchOdds(ctx, result)

	modeled := o.modelGames(ctx, games, hitters, pitchers)
	result.PropCount = len(modeled)

	for i := range modeled {
		o.resolver.Resolve(&modeled[i], quotes)
		if modeled[i].MatchedQuote != nil {
			result.MatchedCount++
		}
	}

	now := time.Now().UTC()
	propsPath, err := o.store.WriteProps(models.PropsSnapshot{GeneratedAt: now, Props: modeled})
	if err != nil {
		return nil, fmt.Errorf("failed to persist props: %w", err)
	}
	result.PathsWritten = append(result.PathsWritten, propsPath)

	edges := edge.AggregateGameEdges(modeled)
	edgesPath, err := o.store.WriteEdges(models.EdgesSnapshot{GeneratedAt: now, Edges: edges})
	if err != nil {
		return nil, fmt.Errorf("failed to persist game edges: %w", err)
	}
	result.PathsWritten = append(result.PathsWritten, edgesPath)

	for _, fresh := range result.Freshness {
		if !fresh {
			result.Degraded = true
			break
		}
	}
	o.logger.Infof("Cycle %s: %d games, %d props, %d matched, degraded=%v",
		runID, result.GameCount, result.PropCount, result.MatchedCount, result.Degraded)
	return result, nil
}

// fetchSchedule fetches today's games, falling back to the prior snapshot.
// A fresh fetch is persisted immediately, even when the slate is empty: an
// off day is the day's truth, not a failure. The second return is false only
// when the fetch failed and no prior snapshot exists.
func (o *Orchestrator) fetchSchedule(ctx context.Context, result *models.RunResult) ([]models.Game, bool) {
	games, err := o.schedule.GetSchedule(ctx)
	if err == nil {
		if path, werr := o.store.WriteGames(models.GamesSnapshot{GeneratedAt: time.Now().UTC(), Games: games}); werr != nil {
			o.logger.Errorf("Failed to persist games snapshot: %v", werr)
		} else {
			result.PathsWritten = append(result.PathsWritten, path)
		}
		return games, true
	}

	o.logger.Errorf("Schedule fetch failed: %v", err)
	result.Freshness[models.StageSchedule] = false
	prev, lerr := o.store.LoadGames()
	if lerr != nil {
		o.logger.Warnf("No prior games snapshot: %v", lerr)
		return nil, false
	}
	o.logger.Warnf("Using cached schedule with %d games", len(prev.Games))
	return prev.Games, true
}

// fetchLeaderboard fetches one leaderboard and maps it to stat records,
// falling back to the per-season stat cache on failure.
func (o *Orchestrator) fetchLeaderboard(ctx context.Context, result *models.RunResult, stage string, season int) map[string]models.StatRecord {
	var (
		rows  []stats.RawRow
		err   error
		table stats.AliasTable
		kind  string
	)
	switch stage {
	case models.StageHitters:
		rows, err = o.savant.HitterLeaderboard(ctx, season)
		table = stats.HitterAliases()
		kind = "hitter"
	case models.StagePitchers:
		rows, err = o.savant.PitcherLeaderboard(ctx, season)
		table = stats.PitcherAliases()
		kind = "pitcher"
	}

	if err == nil {
		mapping, omissions := o.mapper.MapRows(rows, table)
		if len(omissions) > 0 {
			o.logger.Debugf("Mapped %s leaderboard with %d omitted fields", kind, len(omissions))
		}
		cache := models.StatCache{Updated: time.Now().UTC(), Players: mapping}
		if path, werr := o.store.WriteStatCache(kind, season, cache); werr != nil {
			o.logger.Errorf("Failed to persist %s stat cache: %v", kind, werr)
		} else {
			result.PathsWritten = append(result.PathsWritten, path)
		}
		return mapping
	}

	o.logger.Errorf("%s leaderboard fetch failed: %v", kind, err)
	result.Freshness[stage] = false
	cached, lerr := o.store.LoadStatCache(kind, season)
	if lerr != nil {
		o.logger.Warnf("No prior %s stat cache: %v", kind, lerr)
		return map[string]models.StatRecord{}
	}
	o.logger.Warnf("Using cached %s stats for %d players", kind, len(cached.Players))
	return cached.Players
}

// fetchOdds fetches current quotes, falling back to the prior odds snapshot.
func (o *Orchestrator) fetchOdds(ctx context.Context, result *models.RunResult) []models.MarketQuote {
	quotes, err := o.odds.PlayerProps(ctx)
	if err == nil {
		if path, werr := o.store.WriteOdds(models.OddsSnapshot{GeneratedAt: time.Now().UTC(), Props: quotes}); werr != nil {
			o.logger.Errorf("Failed to persist odds snapshot: %v", werr)
		} else {
			result.PathsWritten = append(result.PathsWritten, path)
		}
		return quotes
	}

	o.logger.Errorf("Odds fetch failed: %v", err)
	result.Freshness[models.StageOdds] = false
	prev, lerr := o.store.LoadOdds()
	if lerr != nil {
		o.logger.Warnf("No prior odds snapshot: %v", lerr)
		return nil
	}
	o.logger.Warnf("Using cached odds snapshot with %d quotes", len(prev.Props))
	return prev.Props
}

// modelGames builds one modeled prop per candidate batter, plus a strikeout
// projection prop for each probable starter. Each batter is modeled at most
// once per cycle: the candidate pool is consumed as sides claim batters. A
// failure to model one player never aborts the cycle.
func (o *Orchestrator) modelGames(ctx context.Context, games []models.Game, hitters, pitchers map[string]models.StatRecord) []models.MatchedProp {
	pool := newCandidatePool(hitters)
	var modeled []models.MatchedProp
	for _, game := range games {
		factor := o.parkFactor(ctx, game.Venue)

		homePitcher := pitchers[names.Normalize(game.Home.ProbablePitcher)]
		awayPitcher := pitchers[names.Normalize(game.Away.ProbablePitcher)]

		// Away batters face the home starter and vice versa.
		modeled = append(modeled, o.modelSide(game, game.Away, game.Home.ProbablePitcher, homePitcher, hitters, pool, factor)...)
		modeled = append(modeled, o.modelSide(game, game.Home, game.Away.ProbablePitcher, awayPitcher, hitters, pool, factor)...)

		modeled = append(modeled, o.modelStarters(game, pitchers)...)
	}
	return modeled
}

func (o *Orchestrator) modelSide(game models.Game, side models.TeamSide, oppPitcherName string, oppPitcher models.StatRecord, hitters map[string]models.StatRecord, pool *candidatePool, factor float64) []models.MatchedProp {
	out := make([]models.MatchedProp, 0, o.candidateBatters)
	for _, batterName := range pool.take(side.Abbreviation, o.candidateBatters) {
		out = append(out, models.MatchedProp{
			Game:            game.Label(),
			Player:          batterName,
			Team:            side.Abbreviation,
			OpponentPitcher: oppPitcherName,
			Estimates:       props.Estimates(hitters[batterName], oppPitcher, factor),
		})
	}
	return out
}

// modelStarters adds a strikeout projection for each probable pitcher that
// has a stat record.
func (o *Orchestrator) modelStarters(game models.Game, pitchers map[string]models.StatRecord) []models.MatchedProp {
	var out []models.MatchedProp
	starters := []struct {
		name string
		team string
	}{
		{game.Home.ProbablePitcher, game.Home.Abbreviation},
		{game.Away.ProbablePitcher, game.Away.Abbreviation},
	}
	for _, st := range starters {
		if st.name == "" {
			continue
		}
		record, ok := pitchers[names.Normalize(st.name)]
		if !ok {
			continue
		}
		out = append(out, models.MatchedProp{
			Game:   game.Label(),
			Player: st.name,
			Team:   st.team,
			Estimates: map[string]models.OutcomeEstimate{
				props.OutcomePitcherStrikeouts: props.PitcherStrikeouts(record, o.estInnings),
			},
		})
	}
	return out
}

// parkFactor folds in weather when a client is configured; any weather
// failure degrades to the bare venue factor.
func (o *Orchestrator) parkFactor(ctx context.Context, venue string) float64 {
	if o.weather == nil || venue == "" {
		return park.CombinedFactor(venue, nil)
	}
	cond, err := o.weather.Conditions(ctx, venue)
	if err != nil {
		o.logger.Debugf("Weather lookup for %q skipped: %v", venue, err)
		return park.CombinedFactor(venue, nil)
	}
	return park.CombinedFactor(venue, cond)
}

// candidatePool hands out batters to evaluate. Lineup feeds are not wired,
// so sides claim from the stat cache in deterministic sorted order, team-tagged
// names first. Each batter is handed out once; an exhausted pool yields
// nothing rather than re-modeling the same players for later games.
type candidatePool struct {
	remaining []string
}

func newCandidatePool(hitters map[string]models.StatRecord) *candidatePool {
	keys := make([]string, 0, len(hitters))
	for name := range hitters {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return &candidatePool{remaining: keys}
}

func (p *candidatePool) take(abbr string, n int) []string {
	if n <= 0 || len(p.remaining) == 0 {
		return nil
	}

	if abbr != "" {
		lower := strings.ToLower(abbr)
		var taken, rest []string
		for _, name := range p.remaining {
			if len(taken) < n && strings.Contains(name, lower) {
				taken = append(taken, name)
			} else {
				rest = append(rest, name)
			}
		}
		if len(taken) > 0 {
			p.remaining = rest
			return taken
		}
	}

	if n > len(p.remaining) {
		n = len(p.remaining)
	}
	taken := p.remaining[:n]
	p.remaining = p.remaining[n:]
	return taken
}
