package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CacheService is a thin JSON-marshalling layer over redis, used as a hot
// cache for provider payloads. The pipeline never depends on it for
// correctness: a nil client or a down redis degrades to direct fetches.
type CacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewCacheService creates a new CacheService. client may be nil to disable
// caching entirely.
func NewCacheService(client *redis.Client, logger *logrus.Logger) *CacheService {
	return &CacheService{client: client, logger: logger}
}

// Set stores a JSON-marshalled value under key.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if s.client == nil {
		return fmt.Errorf("cache disabled")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Get unmarshals the value under key into dest.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if s.client == nil {
		return fmt.Errorf("cache disabled")
	}
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("key not found")
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// Delete removes keys.
func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Cache key generators
func ScheduleCacheKey(date string) string {
	return fmt.Sprintf("schedule:%s", date)
}

func LeaderboardCacheKey(kind string, season int) string {
	return fmt.Sprintf("leaderboard:%s:%d", kind, season)
}

func OddsCacheKey(sportKey string) string {
	return fmt.Sprintf("odds:props:%s", sportKey)
}
