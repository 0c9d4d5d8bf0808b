// Command runcycle executes one pipeline cycle and exits. It is the entry
// point for cron or CI-driven runs that do not need the HTTP server.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mwhitman/propedge/internal/park"
	"github.com/mwhitman/propedge/internal/pipeline"
	"github.com/mwhitman/propedge/internal/providers"
	"github.com/mwhitman/propedge/internal/services"
	"github.com/mwhitman/propedge/internal/snapshot"
	"github.com/mwhitman/propedge/pkg/config"
)

func main() {
	season := flag.Int("season", 0, "season year to fetch leaderboards for (default: current year)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logger := logrus.StandardLogger()

	store, err := snapshot.NewStore(cfg.DataDir, logger)
	if err != nil {
		logrus.Fatalf("Failed to open snapshot store: %v", err)
	}

	cacheService := services.NewCacheService(nil, logger)
	espnClient := providers.NewESPNClient(cfg, cacheService, logger)
	savantClient := providers.NewSavantClient(cfg, cacheService, logger)
	oddsClient := providers.NewOddsAPIClient(cfg, cacheService, logger)
	weatherClient := park.NewWeatherClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, logger)

	orchestrator := pipeline.NewOrchestrator(espnClient, savantClient, oddsClient, weatherClient, store, cfg, logger)

	seasonYear := *season
	if seasonYear == 0 {
		seasonYear = time.Now().Year()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CycleTimeout)
	defer cancel()

	start := time.Now()
	result, err := orchestrator.RunCycle(ctx, seasonYear)
	if err != nil {
		logrus.Errorf("Cycle failed: %v", err)
		os.Exit(2)
	}

	logger.Infof("Cycle %s completed in %.1fs: %d games, %d props, %d matched, degraded=%v",
		result.RunID, time.Since(start).Seconds(), result.GameCount, result.PropCount, result.MatchedCount, result.Degraded)
	for _, path := range result.PathsWritten {
		logger.Infof("Wrote %s", path)
	}
}
