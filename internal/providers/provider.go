// Package providers implements clients for the external feeds the pipeline
// ingests: the ESPN scoreboard, Baseball Savant leaderboards, and the Odds
// API player prop markets. Every client shares the same fetch policy: rate
// limited, bounded fixed-interval retries, and an optional redis hot cache
// in front of the network.
package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mwhitman/propedge/internal/services"
	"github.com/mwhitman/propedge/pkg/config"
)

// fetcher carries the fetch policy shared by every provider client.
type fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
	cache      *services.CacheService
	logger     *logrus.Logger
}

func newFetcher(cfg *config.Config, cache *services.CacheService, logger *logrus.Logger) fetcher {
	return fetcher{
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.ProviderRateLimit), 1),
		retries:    cfg.FetchRetries,
		retryDelay: cfg.FetchRetryDelay,
		cache:      cache,
		logger:     logger,
	}
}

// fetch GETs url with the shared policy and returns the response body.
// Non-2xx statuses count as failures and are retried like network errors.
func (f *fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := services.Retry(ctx, f.retries, f.retryDelay, func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := f.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
