package providers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mwhitman/propedge/internal/services"
	"github.com/mwhitman/propedge/internal/stats"
	"github.com/mwhitman/propedge/pkg/config"
)

// SavantClient fetches Baseball Savant custom leaderboard CSV exports.
type SavantClient struct {
	fetcher
	baseURL string
}

// NewSavantClient creates a new Savant leaderboard client.
func NewSavantClient(cfg *config.Config, cache *services.CacheService, logger *logrus.Logger) *SavantClient {
	return &SavantClient{
		fetcher: newFetcher(cfg, cache, logger),
		baseURL: cfg.SavantBaseURL,
	}
}

// HitterLeaderboard fetches the season batter leaderboard as raw rows.
func (c *SavantClient) HitterLeaderboard(ctx context.Context, season int) ([]stats.RawRow, error) {
	return c.leaderboard(ctx, "batter", "hitter", season)
}

// PitcherLeaderboard fetches the season pitcher leaderboard as raw rows.
func (c *SavantClient) PitcherLeaderboard(ctx context.Context, season int) ([]stats.RawRow, error) {
	return c.leaderboard(ctx, "pitcher", "pitcher", season)
}

func (c *SavantClient) leaderboard(ctx context.Context, playerType, kind string, season int) ([]stats.RawRow, error) {
	cacheKey := services.LeaderboardCacheKey(kind, season)

	var cached []stats.RawRow
	if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	q := url.Values{}
	q.Set("type", playerType)
	q.Set("season", strconv.Itoa(season))
	q.Set("csv", "1")

	body, err := c.fetch(ctx, c.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s leaderboard: %w", kind, err)
	}

	text := string(body)
	// The endpoint sometimes answers an HTML error page with status 200.
	if strings.Contains(strings.ToLower(text), "<html") && !strings.Contains(strings.ToLower(text), "player") {
		return nil, fmt.Errorf("%s leaderboard returned HTML instead of CSV", kind)
	}

	rows, err := parseCSVRows(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s leaderboard CSV: %w", kind, err)
	}
	c.logger.Infof("Fetched %d %s leaderboard rows", len(rows), kind)

	if len(rows) > 0 {
		if err := c.cache.Set(ctx, cacheKey, rows, 6*time.Hour); err != nil {
			c.logger.Debugf("Leaderboard cache write skipped: %v", err)
		}
	}
	return rows, nil
}

// parseCSVRows reads a header row plus data rows into string maps. Short rows
// are padded by the reader being lenient; rows longer than the header drop
// the extras.
func parseCSVRows(text string) ([]stats.RawRow, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	rows := make([]stats.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(stats.RawRow, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
