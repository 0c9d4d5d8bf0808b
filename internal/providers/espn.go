package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mwhitman/propedge/internal/models"
	"github.com/mwhitman/propedge/internal/services"
	"github.com/mwhitman/propedge/pkg/config"
)

// ESPNClient fetches the daily MLB scoreboard.
type ESPNClient struct {
	fetcher
	scoreboardURL string
}

// NewESPNClient creates a new ESPN scoreboard client.
func NewESPNClient(cfg *config.Config, cache *services.CacheService, logger *logrus.Logger) *ESPNClient {
	return &ESPNClient{
		fetcher:       newFetcher(cfg, cache, logger),
		scoreboardURL: cfg.ESPNScoreboardURL,
	}
}

// ESPN scoreboard response structures
type espnScoreboard struct {
	Events []struct {
		ID     string `json:"id"`
		Status struct {
			Type struct {
				Description string `json:"description"`
			} `json:"type"`
		} `json:"status"`
		Competitions []struct {
			Date  string `json:"date"`
			Venue struct {
				FullName string `json:"fullName"`
			} `json:"venue"`
			Competitors []struct {
				HomeAway string `json:"homeAway"`
				Team     struct {
					DisplayName  string `json:"displayName"`
					Abbreviation string `json:"abbreviation"`
				} `json:"team"`
				ProbablePitcher struct {
					FullName string `json:"fullName"`
				} `json:"probablePitcher"`
			} `json:"competitors"`
		} `json:"competitions"`
	} `json:"events"`
}

// GetSchedule fetches today's games with probable pitchers. Events with no
// competition entry are skipped; a missing probable pitcher is an empty
// string, not an error.
func (c *ESPNClient) GetSchedule(ctx context.Context) ([]models.Game, error) {
	date := time.Now().UTC().Format("2006-01-02")
	cacheKey := services.ScheduleCacheKey(date)

	var cached []models.Game
	if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	body, err := c.fetch(ctx, c.scoreboardURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	var sb espnScoreboard
	if err := json.Unmarshal(body, &sb); err != nil {
		return nil, fmt.Errorf("failed to parse scoreboard: %w", err)
	}

	games := make([]models.Game, 0, len(sb.Events))
	for _, ev := range sb.Events {
		if len(ev.Competitions) == 0 {
			continue
		}
		comp := ev.Competitions[0]
		game := models.Game{
			ID:        ev.ID,
			StartTime: comp.Date,
			Venue:     comp.Venue.FullName,
			Status:    ev.Status.Type.Description,
		}
		for _, ct := range comp.Competitors {
			side := models.TeamSide{
				Name:            ct.Team.DisplayName,
				Abbreviation:    ct.Team.Abbreviation,
				ProbablePitcher: ct.ProbablePitcher.FullName,
			}
			switch ct.HomeAway {
			case "home":
				game.Home = side
			case "away":
				game.Away = side
			}
		}
		games = append(games, game)
	}
	c.logger.Infof("Extracted %d games from ESPN scoreboard", len(games))

	if len(games) > 0 {
		if err := c.cache.Set(ctx, cacheKey, games, 15*time.Minute); err != nil {
			c.logger.Debugf("Schedule cache write skipped: %v", err)
		}
	}
	return games, nil
}
