package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mwhitman/propedge/internal/models"
	"github.com/mwhitman/propedge/internal/services"
	"github.com/mwhitman/propedge/pkg/config"
)

// OddsAPIClient fetches player prop markets from The Odds API.
type OddsAPIClient struct {
	fetcher
	baseURL  string
	apiKey   string
	sportKey string
	regions  string
	markets  string
}

// NewOddsAPIClient creates a new Odds API client.
func NewOddsAPIClient(cfg *config.Config, cache *services.CacheService, logger *logrus.Logger) *OddsAPIClient {
	return &OddsAPIClient{
		fetcher:  newFetcher(cfg, cache, logger),
		baseURL:  cfg.OddsAPIBaseURL,
		apiKey:   cfg.OddsAPIKey,
		sportKey: cfg.OddsSportKey,
		regions:  cfg.OddsRegions,
		markets:  cfg.OddsMarkets,
	}
}

// Odds API response structures
type oddsGame struct {
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	Bookmakers []struct {
		Title   string `json:"title"`
		Markets []struct {
			Key      string            `json:"key"`
			Outcomes []json.RawMessage `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}

type oddsOutcome struct {
	Name  string          `json:"name"`
	Price json.RawMessage `json:"price"`
}

// PlayerProps fetches the current odds snapshot and flattens player-like
// markets into quotes. A missing API key is an error so the caller can fall
// back to its prior snapshot rather than treating the feed as empty.
func (c *OddsAPIClient) PlayerProps(ctx context.Context) ([]models.MarketQuote, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("no odds API key configured")
	}

	cacheKey := services.OddsCacheKey(c.sportKey)
	var cached []models.MarketQuote
	if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("regions", c.regions)
	q.Set("markets", c.markets)
	q.Set("oddsFormat", "american")
	endpoint := fmt.Sprintf("%s/sports/%s/odds?%s", c.baseURL, c.sportKey, q.Encode())

	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds: %w", err)
	}

	var games []oddsGame
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("failed to parse odds response: %w", err)
	}

	quotes := extractPlayerQuotes(games)
	c.logger.Infof("Extracted %d prop outcomes from odds snapshot", len(quotes))

	if len(quotes) > 0 {
		if err := c.cache.Set(ctx, cacheKey, quotes, 10*time.Minute); err != nil {
			c.logger.Debugf("Odds cache write skipped: %v", err)
		}
	}
	return quotes, nil
}

// extractPlayerQuotes walks games, bookmakers, markets and outcomes, keeping
// every outcome under a player-like market key. The raw outcome payload rides
// along so matching can fall back to it when the label alone is not enough.
func extractPlayerQuotes(games []oddsGame) []models.MarketQuote {
	var quotes []models.MarketQuote
	for _, game := range games {
		label := game.AwayTeam + " @ " + game.HomeTeam
		for _, book := range game.Bookmakers {
			for _, market := range book.Markets {
				if !isPlayerMarket(market.Key) {
					continue
				}
				for _, raw := range market.Outcomes {
					var outcome oddsOutcome
					if err := json.Unmarshal(raw, &outcome); err != nil {
						continue
					}
					quotes = append(quotes, models.MarketQuote{
						Game:       label,
						SourceBook: book.Title,
						MarketKey:  market.Key,
						Label:      outcome.Name,
						Price:      outcome.Price,
						RawPayload: raw,
					})
				}
			}
		}
	}
	return quotes
}

func isPlayerMarket(key string) bool {
	return strings.Contains(key, "player") || strings.Contains(key, "props")
}
